// Copyright (c) 2026 Vision. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package locale normalizes and validates the locale codes used to partition
attribute values and display labels.

The catalog stores locales in the POSIX-style "ll_RR" form (e.g. "en_US",
"ar_EG") because that is the shape exchanged with downstream commerce
channels. Clients however tend to send whatever their platform produces:
"en-us", "EN_us", "ar". This package canonicalizes all of those through the
BCP 47 machinery in golang.org/x/text before anything touches storage, so
that "en-US" and "en_us" can never create two distinct value rows.
*/
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalize canonicalizes a client-supplied locale code into the stored
// "ll_RR" form (or bare "ll" when no region is present).
//
// It returns the canonical code and true on success, or the empty string and
// false when the input is not a parseable locale tag.
func Normalize(code string) (string, bool) {
	if code == "" {
		return "", false
	}

	// BCP 47 uses hyphens; the catalog historically uses underscores.
	bcp47 := strings.ReplaceAll(code, "_", "-")

	tag, err := language.Parse(bcp47)
	if err != nil {
		return "", false
	}

	base, baseConf := tag.Base()
	if baseConf == language.No {
		return "", false
	}

	// Only emit a region when the caller actually supplied one. language.Tag
	// infers a likely region for bare languages ("en" → US) and that guess
	// must not leak into storage keys.
	if !strings.Contains(bcp47, "-") {
		return base.String(), true
	}

	region, regionConf := tag.Region()
	if regionConf == language.No || !region.IsCountry() {
		return base.String(), true
	}

	return base.String() + "_" + region.String(), true
}

// Valid reports whether code is an acceptable locale identifier.
func Valid(code string) bool {
	_, ok := Normalize(code)
	return ok
}
