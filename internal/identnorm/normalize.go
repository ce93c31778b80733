// Package identnorm normalizes identifier text at every environment
// boundary so that visually identical names entered with different
// Unicode byte sequences (e.g. combining-accent forms) compare equal.
package identnorm

import "golang.org/x/text/unicode/norm"

// Normalize returns name in NFC form. It is applied whenever a name is
// inserted into or looked up from the static environment, so two source
// files that spell the same identifier with different Unicode
// decompositions still refer to the same binding.
func Normalize(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
