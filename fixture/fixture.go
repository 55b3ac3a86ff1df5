// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fixture records the output of fault-injection campaigns, either
// as a JSON suite or in the line format "msghex sighex" read by existing
// analysis tooling.
package fixture

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spxfault/spx/signature/sphincsplus"
)

// Results of a Record.
const (
	Valid   = "valid"
	Invalid = "invalid"
)

// Suite is the top level object of a JSON fixture file.
type Suite struct {
	Algorithm     string            `json:"algorithm"`
	PublicKey     HexBytes          `json:"publicKey"`
	NumberOfTests int               `json:"numberOfTests"`
	Notes         map[string]string `json:"notes,omitempty"`
	Records       []Record          `json:"tests"`
}

// Record is one faulty signature together with the layer and target of the
// fault and whether the signature verifies.
type Record struct {
	CaseID    int      `json:"tcId"`
	Layer     int      `json:"layer"`
	Verifying bool     `json:"verifying"`
	Msg       HexBytes `json:"msg"`
	Sig       HexBytes `json:"sig"`
	Result    string   `json:"result"`
}

// HexBytes is a byte sequence represented as a hex encoded string in JSON.
type HexBytes []byte

// MarshalText converts a sequence of bytes into a hex encoded string.
func (a HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(a)), nil
}

// UnmarshalText converts a hex encoded string into a sequence of bytes.
func (a *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}

	*a = decoded
	return nil
}

// Generate fault-signs every message in msgs with privateKey on the given
// layer and records whether the result verifies. opts configure the fault
// signer; use [sphincsplus.WithRand] for reproducible campaigns.
func Generate(privateKey *sphincsplus.PrivateKey, msgs [][]byte, layer int, verifying bool, opts ...sphincsplus.Option) (*Suite, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("fixture.Generate: privateKey must not be nil")
	}
	faultSigner, err := sphincsplus.NewFaultSigner(privateKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("fixture.Generate: %w", err)
	}
	k, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("fixture.Generate: %w", err)
	}
	publicKey := k.(*sphincsplus.PublicKey)
	verifier, err := sphincsplus.NewVerifier(publicKey)
	if err != nil {
		return nil, fmt.Errorf("fixture.Generate: %w", err)
	}

	suite := &Suite{
		Algorithm:     privateKey.Parameters().String(),
		PublicKey:     publicKey.KeyBytes(),
		NumberOfTests: len(msgs),
		Records:       make([]Record, 0, len(msgs)),
	}
	for i, msg := range msgs {
		sig, err := faultSigner.FaultSign(msg, layer, verifying)
		if err != nil {
			return nil, fmt.Errorf("fixture.Generate: message %d: %w", i, err)
		}
		ok, err := verifier.Verify(sig, msg)
		if err != nil {
			return nil, fmt.Errorf("fixture.Generate: message %d: %w", i, err)
		}
		result := Invalid
		if ok {
			result = Valid
		}
		suite.Records = append(suite.Records, Record{
			CaseID:    i + 1,
			Layer:     layer,
			Verifying: verifying,
			Msg:       msg,
			Sig:       sig,
			Result:    result,
		})
	}
	return suite, nil
}

// WriteSuite writes suite as indented JSON.
func WriteSuite(w io.Writer, suite *Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suite)
}

// PopulateSuite decodes the JSON data in r into suite.
func PopulateSuite(suite any, r io.Reader) error {
	parser := json.NewDecoder(r)
	if err := parser.Decode(suite); err != nil {
		return err
	}
	return nil
}

// WriteLegacy writes one "msghex sighex" line per record.
func WriteLegacy(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%x %x\n", []byte(r.Msg), []byte(r.Sig)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// maxLegacyLine bounds a legacy line; the largest signature is 49216 bytes.
const maxLegacyLine = 1 << 20

// ParseLegacy reads lines written by WriteLegacy. Only messages and
// signatures are recovered; empty lines are ignored. An empty message is
// a line starting with the separator.
func ParseLegacy(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLegacyLine)
	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		msgHex, sigHex, ok := strings.Cut(text, " ")
		if !ok {
			return nil, fmt.Errorf("fixture.ParseLegacy: line %d: missing separator", line)
		}
		var rec Record
		if err := rec.Msg.UnmarshalText([]byte(msgHex)); err != nil {
			return nil, fmt.Errorf("fixture.ParseLegacy: line %d: %w", line, err)
		}
		if err := rec.Sig.UnmarshalText([]byte(sigHex)); err != nil {
			return nil, fmt.Errorf("fixture.ParseLegacy: line %d: %w", line, err)
		}
		rec.CaseID = len(records) + 1
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fixture.ParseLegacy: %w", err)
	}
	return records, nil
}
