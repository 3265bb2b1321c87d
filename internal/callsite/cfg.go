// Copyright 2024 UDFKit Authors
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

package callsite

// Cfg is the per-call-site configuration handle the engine supplies at
// initialization: result nullability, precision, and maximum length.
//
// Like the argument list, it is exposed to user code through two capability
// views: InitCfg allows declaring result properties, ProcessCfg is read-only.
type Cfg struct {
	maybeNull bool
	constItem bool
	decimals  uint32
	maxLen    uint64
}

// NewCfg returns a configuration handle with the engine's defaults:
// the result may be null, is not constant, and has no declared precision.
func NewCfg() *Cfg {
	return &Cfg{
		maybeNull: true,
	}
}

// AsInit returns the initialization-phase capability view.
func (c *Cfg) AsInit() *InitCfg {
	return &InitCfg{c: c}
}

// AsProcess returns the processing-phase capability view.
func (c *Cfg) AsProcess() *ProcessCfg {
	return &ProcessCfg{c: c}
}

// InitCfg is the configuration view available during initialization.
type InitCfg struct {
	c *Cfg
}

// MaybeNull reports whether the result is declared nullable.
func (c *InitCfg) MaybeNull() bool {
	return c.c.maybeNull
}

// SetMaybeNull declares whether the result may be null.
func (c *InitCfg) SetMaybeNull(v bool) {
	c.c.maybeNull = v
}

// SetConstItem declares that the result is constant across rows.
func (c *InitCfg) SetConstItem(v bool) {
	c.c.constItem = v
}

// SetDecimals declares the number of decimals of the result.
func (c *InitCfg) SetDecimals(n uint32) {
	c.c.decimals = n
}

// SetMaxLen declares the maximum result length in bytes.
func (c *InitCfg) SetMaxLen(n uint64) {
	c.c.maxLen = n
}

// ProcessCfg is the read-only configuration view available during processing.
type ProcessCfg struct {
	c *Cfg
}

// MaybeNull reports whether the result is declared nullable.
func (c *ProcessCfg) MaybeNull() bool {
	return c.c.maybeNull
}

// ConstItem reports whether the result is declared constant.
func (c *ProcessCfg) ConstItem() bool {
	return c.c.constItem
}

// Decimals returns the declared number of decimals of the result.
func (c *ProcessCfg) Decimals() uint32 {
	return c.c.decimals
}

// MaxLen returns the declared maximum result length in bytes.
func (c *ProcessCfg) MaxLen() uint64 {
	return c.c.maxLen
}
