package placeholder

import "strings"

// Segment is one piece of a filled document: literal text, or the marker
// for a variable that had no value.
type Segment struct {
	Text    string
	Missing bool
	Name    string
}

// Document is the result of filling a template body with a record
type Document struct {
	Segments []Segment
}

// MarkerFunc renders a missing variable for presentation
type MarkerFunc func(name string) string

// BracketMarker flags a missing variable as [NAME]
func BracketMarker(name string) string {
	return "[" + name + "]"
}

// Fill substitutes every placeholder in body with its value from record.
// Values are inserted verbatim and never scanned again, so a value that
// itself contains {{...}} is not expanded.
func Fill(body string, record Record) Document {
	var doc Document
	last := 0

	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(body, -1) {
		start, end := loc[0], loc[1]
		raw := body[loc[2]:loc[3]]

		name, ok := canonicalName(raw)
		if !ok {
			if strings.TrimSpace(raw) == "" {
				// {{}} has no name to flag and is dropped
				doc.appendText(body[last:start])
				last = end
			}
			// malformed names stay in the text literally
			continue
		}

		doc.appendText(body[last:start])
		if value := record[name]; value != "" {
			doc.appendText(value)
		} else {
			doc.Segments = append(doc.Segments, Segment{Missing: true, Name: name})
		}
		last = end
	}

	doc.appendText(body[last:])
	return doc
}

// Render fills body and flags missing values with BracketMarker
func Render(body string, record Record) string {
	return Fill(body, record).String(BracketMarker)
}

func (d *Document) appendText(text string) {
	if text == "" {
		return
	}
	if n := len(d.Segments); n > 0 && !d.Segments[n-1].Missing {
		d.Segments[n-1].Text += text
		return
	}
	d.Segments = append(d.Segments, Segment{Text: text})
}

// String joins the document, rendering missing variables with marker.
// A nil marker falls back to BracketMarker.
func (d Document) String(marker MarkerFunc) string {
	if marker == nil {
		marker = BracketMarker
	}

	var b strings.Builder
	for _, seg := range d.Segments {
		if seg.Missing {
			b.WriteString(marker(seg.Name))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Missing returns the unique names that had no value, in document order
func (d Document) Missing() []string {
	var names []string
	seen := make(map[string]bool)
	for _, seg := range d.Segments {
		if seg.Missing && !seen[seg.Name] {
			seen[seg.Name] = true
			names = append(names, seg.Name)
		}
	}
	return names
}

// Complete reports whether every placeholder received a value
func (d Document) Complete() bool {
	for _, seg := range d.Segments {
		if seg.Missing {
			return false
		}
	}
	return true
}
