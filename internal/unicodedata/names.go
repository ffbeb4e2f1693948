package unicodedata

import "sort"

// specialNames carries friendly names for characters whose canonical
// Unicode names are absent (controls) or unwieldy (spaces, format
// characters). They take precedence over runenames output.
var specialNames = map[rune]string{
	0x0000: "Null",
	0x0001: "Start of Heading",
	0x0002: "Start of Text",
	0x0003: "End of Text",
	0x0004: "End of Transmission",
	0x0005: "Enquiry",
	0x0006: "Acknowledge",
	0x0007: "Bell",
	0x0008: "Backspace",
	0x0009: "Tab",
	0x000A: "Line Feed",
	0x000B: "Vertical Tab",
	0x000C: "Form Feed",
	0x000D: "Carriage Return",
	0x000E: "Shift Out",
	0x000F: "Shift In",
	0x0010: "Data Link Escape",
	0x0011: "Device Control 1",
	0x0012: "Device Control 2",
	0x0013: "Device Control 3",
	0x0014: "Device Control 4",
	0x0015: "Negative Acknowledge",
	0x0016: "Synchronous Idle",
	0x0017: "End of Transmission Block",
	0x0018: "Cancel",
	0x0019: "End of Medium",
	0x001A: "Substitute",
	0x001B: "Escape",
	0x001C: "File Separator",
	0x001D: "Group Separator",
	0x001E: "Record Separator",
	0x001F: "Unit Separator",
	0x0020: "Space",
	0x007F: "Delete",
	0x00A0: "Non-breaking Space",
	0x00AD: "Soft Hyphen",
	0x2000: "En Quad",
	0x2001: "Em Quad",
	0x2002: "En Space",
	0x2003: "Em Space",
	0x2004: "Three-per-em Space",
	0x2005: "Four-per-em Space",
	0x2006: "Six-per-em Space",
	0x2007: "Figure Space",
	0x2008: "Punctuation Space",
	0x2009: "Thin Space",
	0x200A: "Hair Space",
	0x200B: "Zero Width Space",
	0x200C: "Zero Width Non-joiner",
	0x200D: "Zero Width Joiner",
	0x200E: "Left-to-right Mark",
	0x200F: "Right-to-left Mark",
	0x2028: "Line Separator",
	0x2029: "Paragraph Separator",
	0x202A: "Left-to-right Embedding",
	0x202B: "Right-to-left Embedding",
	0x202C: "Pop Directional Formatting",
	0x202D: "Left-to-right Override",
	0x202E: "Right-to-left Override",
	0x202F: "Narrow No-break Space",
	0x205F: "Medium Mathematical Space",
	0x2060: "Word Joiner",
	0x2061: "Function Application",
	0x2062: "Invisible Times",
	0x2063: "Invisible Separator",
	0x2064: "Invisible Plus",
	0x2066: "Left-to-right Isolate",
	0x2067: "Right-to-left Isolate",
	0x2068: "First Strong Isolate",
	0x2069: "Pop Directional Isolate",
	0xFEFF: "Zero Width No-break Space",
	0xFFF9: "Interlinear Annotation Anchor",
	0xFFFA: "Interlinear Annotation Separator",
	0xFFFB: "Interlinear Annotation Terminator",
	0xFFFC: "Object Replacement Character",
	0xFFFD: "Replacement Character",
}

// SpecialName returns the friendly override name for r, if one exists.
func SpecialName(r rune) (string, bool) {
	name, ok := specialNames[r]
	return name, ok
}

// extraAliases supplements the Adobe glyph list with colloquial names
// people actually type.
var extraAliases = map[rune][]string{
	0x00DF: {"sz"},
	0x1E9E: {"SZ"},
	0x00C4: {"A umlaut"},
	0x00E4: {"a umlaut"},
	0x00CB: {"E umlaut"},
	0x00EB: {"e umlaut"},
	0x00CF: {"I umlaut"},
	0x00EF: {"i umlaut"},
	0x00D6: {"O umlaut"},
	0x00F6: {"o umlaut"},
	0x00DC: {"U umlaut"},
	0x00FC: {"u umlaut"},
	0x0178: {"Y umlaut"},
	0x00FF: {"y umlaut"},
}

// AliasEntries returns the extra alias table flattened to glyph-list
// entries in ascending codepoint order, so index construction stays
// deterministic despite the map.
func AliasEntries() []GlyphNameEntry {
	runes := make([]rune, 0, len(extraAliases))
	for r := range extraAliases {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var entries []GlyphNameEntry
	for _, r := range runes {
		for _, name := range extraAliases[r] {
			entries = append(entries, GlyphNameEntry{Name: name, Runes: []rune{r}})
		}
	}
	return entries
}
