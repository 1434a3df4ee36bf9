package osc

import (
	"encoding/binary"
	"math"
)

type testCase struct {
	name    string
	obj     *Message
	raw     []byte
	wantErr bool
}

// join concatenates byte fields into one packet.
func join(fields ...[]byte) []byte {
	var b []byte
	for _, f := range fields {
		b = append(b, f...)
	}
	return b
}

func be32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func bef32(f float32) []byte {
	return be32(math.Float32bits(f))
}

var messageTestCases = []testCase{
	{
		name: "label_string",
		obj:  &Message{Path: "/label1", TypeTags: ",s", Arguments: []Argument{String("Frameno: 4")}},
		raw:  []byte("/label1\x00,s\x00\x00Frameno: 4\x00\x00"),
	},
	{
		name: "box_int",
		obj:  &Message{Path: "/box2", TypeTags: ",i", Arguments: []Argument{Int32(255)}},
		raw:  []byte("/box2\x00\x00\x00,i\x00\x00\x00\x00\x00\xff"),
	},
	{
		name: "negative_int",
		obj:  &Message{Path: "/n", TypeTags: ",i", Arguments: []Argument{Int32(-2)}},
		raw:  []byte("/n\x00\x00,i\x00\x00\xff\xff\xff\xfe"),
	},
	{
		name: "empty_string",
		obj:  &Message{Path: "/t", TypeTags: ",s", Arguments: []Argument{String("")}},
		raw:  []byte("/t\x00\x00,s\x00\x00\x00\x00\x00\x00"),
	},
	{
		name: "float",
		obj:  &Message{Path: "/avatar/parameters/parameter1", TypeTags: ",f", Arguments: []Argument{Float32(1)}},
		raw:  []byte("/avatar/parameters/parameter1\x00\x00\x00,f\x00\x00\x3f\x80\x00\x00"),
	},
	{
		name: "blob",
		obj:  &Message{Path: "/b", TypeTags: ",b", Arguments: []Argument{Blob{1, 2, 3}}},
		raw:  []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x03\x01\x02\x03\x00"),
	},
	{
		name: "empty_blob",
		obj:  &Message{Path: "/b", TypeTags: ",b", Arguments: []Argument{Blob{}}},
		raw:  []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x00"),
	},
	{
		name: "no_arguments",
		obj:  &Message{Path: "/x", TypeTags: ",", Arguments: []Argument{}},
		raw:  []byte("/x\x00\x00,\x00\x00\x00"),
	},
	{
		name: "composite",
		obj: &Message{Path: "/composite", TypeTags: ",ifs", Arguments: []Argument{
			Int32(5), Float32(3.24), String("hello"),
		}},
		raw: join(
			[]byte("/composite\x00\x00"),
			[]byte(",ifs\x00\x00\x00\x00"),
			be32(5),
			bef32(3.24),
			[]byte("hello\x00\x00\x00"),
		),
	},
}
