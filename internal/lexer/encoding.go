// Copyright 2025 EngFlow Inc. All rights reserved.
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

package lexer

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// wideEncoder is the width L-prefixed literals are checked against. wchar_t
// is 4 bytes on every platform cclint targets (Linux/glibc), unlike the
// 2-byte wchar_t MSVC uses, so L literals share U's UTF-32 encoder.
var wideEncoder = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewEncoder()

var utf16Encoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// validateLiteralEncoding reports whether value, the already escape-decoded
// body of an encoding-prefixed literal, actually fits the width its prefix
// declares. decodeEscapes never rejects an escape sequence on its own, so a
// u8/u/U/L literal carrying an unpaired surrogate or an out-of-range code
// point would otherwise reach the rest of the pipeline untagged; this is
// the check that catches it.
func validateLiteralEncoding(prefix, value string) error {
	switch prefix {
	case "u8":
		if _, _, err := transform.String(unicode.UTF8Validator, value); err != nil {
			return fmt.Errorf("u8 literal is not valid UTF-8: %w", err)
		}
	case "u":
		if _, _, err := transform.String(utf16Encoder, value); err != nil {
			return fmt.Errorf("u literal does not fit UTF-16: %w", err)
		}
	case "U", "L":
		enc := wideEncoder
		if _, _, err := transform.String(enc, value); err != nil {
			return fmt.Errorf("%s literal does not fit UTF-32: %w", prefix, err)
		}
	}
	return nil
}
