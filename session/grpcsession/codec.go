package grpcsession

import (
	"errors"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/veldtlabs/pqbin/result"
)

// Field names of the hand-rolled request/response structs. See session.proto.
const (
	fieldQuery   = "query"
	fieldArgs    = "args"
	fieldName    = "name"
	fieldValue   = "value"
	fieldColumns = "columns"
	fieldRows    = "rows"
)

func stringList(ss []string) *structpb.Value {
	vals := make([]*structpb.Value, len(ss))
	for i, s := range ss {
		vals[i] = structpb.NewStringValue(s)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: vals})
}

func toStrings(v *structpb.Value) []string {
	lv := v.GetListValue()
	if lv == nil {
		return nil
	}
	out := make([]string, 0, len(lv.GetValues()))
	for _, item := range lv.GetValues() {
		out = append(out, item.GetStringValue())
	}
	return out
}

func encodeExecRequest(query string, args []string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldQuery: structpb.NewStringValue(query),
		fieldArgs:  stringList(args),
	}}
}

func decodeExecRequest(in *structpb.Struct) (query string, args []string, err error) {
	query = in.GetFields()[fieldQuery].GetStringValue()
	if query == "" {
		return "", nil, errors.New("missing query")
	}
	args = toStrings(in.GetFields()[fieldArgs])
	return query, args, nil
}

func encodeVarRequest(name, value string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldName:  structpb.NewStringValue(name),
		fieldValue: structpb.NewStringValue(value),
	}}
}

func decodeVarRequest(in *structpb.Struct) (name, value string, err error) {
	name = in.GetFields()[fieldName].GetStringValue()
	if name == "" {
		return "", "", errors.New("missing variable name")
	}
	return name, in.GetFields()[fieldValue].GetStringValue(), nil
}

func encodeResult(r *result.Result) *structpb.Struct {
	if r == nil {
		r = result.Empty()
	}
	rows := make([]*structpb.Value, r.Len())
	for i, row := range r.Rows {
		rows[i] = stringList(row)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldColumns: stringList(r.Columns),
		fieldRows:    structpb.NewListValue(&structpb.ListValue{Values: rows}),
	}}
}

func decodeResult(in *structpb.Struct) *result.Result {
	res := &result.Result{Columns: toStrings(in.GetFields()[fieldColumns])}
	rowsVal := in.GetFields()[fieldRows].GetListValue()
	for _, row := range rowsVal.GetValues() {
		res.Rows = append(res.Rows, toStrings(row))
	}
	return res
}
