// Copyright 2024 Google LLC
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

package expr

// AttrCons enumerates the constructor attribute a binary operator symbol may
// carry, identifying it as an associative-nil list constructor.
type AttrCons uint8

// Constructor attribute values.
const (
	AttrNone AttrCons = iota
	AttrLeftAssocNil
	AttrRightAssocNil
)

// AppInfo records the constructor attributes of an operator symbol: whether
// it is treated as a variadic, associative-nil list constructor by the list
// primitives (EVAL_TO_LIST, EVAL_FROM_LIST, EVAL_CONS, EVAL_CONCAT,
// EVAL_EXTRACT, EVAL_FIND), and if so, its declared nil element.
type AppInfo struct {
	Cons     AttrCons
	ConsTerm *Node
}

// IsAssociative returns true if the attribute marks an associative-nil list
// constructor (left- or right-associative).
func (a *AppInfo) IsAssociative() bool {
	return a != nil && (a.Cons == AttrLeftAssocNil || a.Cons == AttrRightAssocNil)
}

// IsLeftAssoc returns true if the attribute is specifically left-associative.
func (a *AppInfo) IsLeftAssoc() bool {
	return a != nil && a.Cons == AttrLeftAssocNil
}
