// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

const float32Size = 4

// VectorMUS encodes a []float32 as a varint length followed by raw float32
// values. An empty vector decodes as nil.
var VectorMUS = vectorMUS{}

// IndexEntryMUS encodes an IndexEntry field by field in declaration order.
var IndexEntryMUS = indexEntryMUS{}

var (
	_ mus.Serializer[[]float32]  = VectorMUS
	_ mus.Serializer[IndexEntry] = IndexEntryMUS
)

type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := s.length(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := range v {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s vectorMUS) Size(v []float32) (size int) {
	return varint.PositiveInt.Size(len(v)) + len(v)*float32Size
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := s.length(bs)
	if err != nil {
		return
	}
	return n + length*float32Size, nil
}

// length reads the element count and checks it against the bytes left, so
// a corrupt count never drives a large allocation.
func (s vectorMUS) length(bs []byte) (length int, n int, err error) {
	length, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > (len(bs)-n)/float32Size {
		err = ErrVectorLength
	}
	return
}

type indexEntryMUS struct{}

func (s indexEntryMUS) Marshal(v IndexEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += varint.Int.Marshal(v.Page, bs[n:])
	return n + VectorMUS.Marshal(v.Vector, bs[n:])
}

func (s indexEntryMUS) Unmarshal(bs []byte) (v IndexEntry, n int, err error) {
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Page, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = VectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexEntryMUS) Size(v IndexEntry) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.Source)
	size += varint.Int.Size(v.Page)
	return size + VectorMUS.Size(v.Vector)
}

func (s indexEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = VectorMUS.Skip(bs[n:])
	n += n1
	return
}
