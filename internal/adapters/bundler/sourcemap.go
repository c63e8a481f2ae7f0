package bundler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/zerr"
)

// sourceMap is the source map v3 document written next to a code bundle.
type sourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// buildSourceMap produces line-granular mappings: each bundle line maps to
// column zero of the compiled line it was copied from; synthesized lines
// map to nothing.
func buildSourceMap(desc domain.BundleDescriptor, sources []string, refs []lineRef) ([]byte, error) {
	mapDir := filepath.Dir(desc.MapFile)
	doc := sourceMap{
		Version:  3,
		File:     filepath.Base(desc.OutFile),
		Sources:  make([]string, len(sources)),
		Names:    []string{},
		Mappings: encodeMappings(refs),
	}

	for i, src := range sources {
		rel, err := filepath.Rel(mapDir, src)
		if err != nil {
			rel = src
		}
		doc.Sources[i] = filepath.ToSlash(rel)

		content, err := os.ReadFile(src) //nolint:gosec // Sources come from the linked program
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read mapped source"), "path", src)
		}
		doc.SourcesContent = append(doc.SourcesContent, string(content))
	}

	return json.Marshal(doc)
}

// encodeMappings renders one VLQ segment per mapped output line. Fields
// are deltas against the previous segment, per the source map v3 format.
func encodeMappings(refs []lineRef) string {
	var b strings.Builder
	prevSource, prevLine := 0, 0

	for i, ref := range refs {
		if i > 0 {
			b.WriteByte(';')
		}
		if ref.Source < 0 {
			continue
		}
		b.WriteString(encodeVLQ(0))
		b.WriteString(encodeVLQ(ref.Source - prevSource))
		b.WriteString(encodeVLQ(ref.Line - prevLine))
		b.WriteString(encodeVLQ(0))
		prevSource, prevLine = ref.Source, ref.Line
	}
	return b.String()
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ writes one signed value in base64 VLQ: the sign moves into the
// lowest bit, then the value is emitted in 5-bit groups with a
// continuation bit.
func encodeVLQ(value int) string {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}

	var out []byte
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		out = append(out, vlqChars[digit])
		if v == 0 {
			return string(out)
		}
	}
}
