package httpapi

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/valyala/fastjson"
)

// ErrRecordNotObject indicates record JSON that is not an object.
var ErrRecordNotObject = errors.New("data must be a JSON object")

var recordParsers fastjson.ParserPool

// DecodeRecord parses a JSON object into a record.
//
// Numbers that fit an int64 become int64 and other numbers float64, strings
// stay strings, booleans stay booleans and null becomes nil. Nested arrays
// and objects are kept as raw JSON bytes, which no comparison accepts.
func DecodeRecord(data []byte) (expr.Record, error) {
	p := recordParsers.Get()
	defer recordParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return recordFromValue(v)
}

// recordFromValue converts a parsed JSON object. The result does not
// reference v, so v's parser may be reused afterwards.
func recordFromValue(v *fastjson.Value) (expr.Record, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, ErrRecordNotObject
	}

	record := make(expr.Record, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		record[string(key)] = valueOf(val)
	})
	return record, nil
}

// valueOf converts a JSON scalar to the Go value the evaluator understands.
func valueOf(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		return v.GetFloat64()
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	default:
		return v.MarshalTo(nil)
	}
}
