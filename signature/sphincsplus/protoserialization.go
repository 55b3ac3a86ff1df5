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

package sphincsplus

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/spxfault/spx/insecuresecretdataaccess"
	"github.com/spxfault/spx/secretdata"
)

// Keys are serialized in the protobuf wire format of the following messages:
//
//	message SphincsPlusParams {
//	  string instance = 1;
//	  HashMode hash_mode = 2;        // 1 = SIMPLE, 2 = ROBUST
//	  SigningMode signing_mode = 3;  // 1 = RANDOMIZED, 2 = DETERMINISTIC
//	}
//	message SphincsPlusPublicKey {
//	  uint32 version = 1;
//	  SphincsPlusParams params = 2;
//	  bytes key_value = 3;
//	}
//	message SphincsPlusPrivateKey {
//	  uint32 version = 1;
//	  SphincsPlusPublicKey public_key = 2;
//	  bytes key_value = 3;
//	}
const (
	// publicKeyProtoVersion is the accepted public key version.
	//
	// Currently, only version 0 is supported; other versions are rejected.
	publicKeyProtoVersion = 0
	// privateKeyProtoVersion is the accepted private key version.
	//
	// Currently, only version 0 is supported; other versions are rejected.
	privateKeyProtoVersion = 0
)

const (
	paramsInstanceField    protowire.Number = 1
	paramsHashModeField    protowire.Number = 2
	paramsSigningModeField protowire.Number = 3

	keyVersionField protowire.Number = 1
	keyParamsField  protowire.Number = 2
	keyValueField   protowire.Number = 3
)

func appendParams(b []byte, p *Parameters) []byte {
	b = protowire.AppendTag(b, paramsInstanceField, protowire.BytesType)
	b = protowire.AppendString(b, p.instance)
	b = protowire.AppendTag(b, paramsHashModeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.hashMode))
	b = protowire.AppendTag(b, paramsSigningModeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.signingMode))
	return b
}

func appendKey(b []byte, version uint64, inner, keyValue []byte) []byte {
	if version != 0 {
		b = protowire.AppendTag(b, keyVersionField, protowire.VarintType)
		b = protowire.AppendVarint(b, version)
	}
	b = protowire.AppendTag(b, keyParamsField, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)
	b = protowire.AppendTag(b, keyValueField, protowire.BytesType)
	b = protowire.AppendBytes(b, keyValue)
	return b
}

// field is one decoded top-level field of a message. Only varint and
// length-delimited values are kept; other wire types are skipped.
type field struct {
	varint uint64
	bytes  []byte
}

// parseFields decodes b into the last occurrence of each field number.
func parseFields(b []byte) (map[protowire.Number]field, error) {
	fields := make(map[protowire.Number]field)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		var f field
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		fields[num] = f
	}
	return fields, nil
}

func parseParams(b []byte) (*Parameters, error) {
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	return NewParameters(
		string(fields[paramsInstanceField].bytes),
		HashMode(fields[paramsHashModeField].varint),
		SigningMode(fields[paramsSigningModeField].varint))
}

// parseKey splits a key message into its nested message and key value,
// rejecting unsupported versions.
func parseKey(b []byte, wantVersion uint64) ([]byte, []byte, error) {
	fields, err := parseFields(b)
	if err != nil {
		return nil, nil, err
	}
	if v := fields[keyVersionField].varint; v != wantVersion {
		return nil, nil, fmt.Errorf("unsupported key version: %v", v)
	}
	return fields[keyParamsField].bytes, fields[keyValueField].bytes, nil
}

// SerializePublicKey returns the wire encoding of k.
func SerializePublicKey(k *PublicKey) ([]byte, error) {
	if k == nil || k.params == nil {
		return nil, fmt.Errorf("sphincsplus.SerializePublicKey: invalid key")
	}
	return appendKey(nil, publicKeyProtoVersion, appendParams(nil, k.params), k.keyBytes), nil
}

// ParsePublicKey parses a public key produced by [SerializePublicKey].
func ParsePublicKey(b []byte) (*PublicKey, error) {
	inner, keyValue, err := parseKey(b, publicKeyProtoVersion)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.ParsePublicKey: %w", err)
	}
	params, err := parseParams(inner)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.ParsePublicKey: %w", err)
	}
	return NewPublicKey(keyValue, params)
}

// SerializePrivateKey returns the wire encoding of k, which contains the
// secret seeds.
func SerializePrivateKey(k *PrivateKey, token insecuresecretdataaccess.Token) ([]byte, error) {
	if k == nil || k.publicKey == nil {
		return nil, fmt.Errorf("sphincsplus.SerializePrivateKey: invalid key")
	}
	pub, err := SerializePublicKey(k.publicKey)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.SerializePrivateKey: %w", err)
	}
	return appendKey(nil, privateKeyProtoVersion, pub, k.keyBytes.Data(token)), nil
}

// ParsePrivateKey parses a private key produced by [SerializePrivateKey].
// The embedded public key must match the seeds.
func ParsePrivateKey(b []byte, token insecuresecretdataaccess.Token) (*PrivateKey, error) {
	pub, keyValue, err := parseKey(b, privateKeyProtoVersion)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.ParsePrivateKey: %w", err)
	}
	pubKey, err := ParsePublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("sphincsplus.ParsePrivateKey: %w", err)
	}
	return NewPrivateKeyWithPublicKey(secretdata.NewBytesFromData(keyValue, token), pubKey)
}
