package compiler

import (
	"path/filepath"
	"strings"
	"unicode"
)

// javaIdent turns an arbitrary name into an upper-camel Java class name.
// Separators start a new word; anything else that is not a letter or a
// digit is dropped.
func javaIdent(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if b.Len() == 0 && unicode.IsDigit(r) {
				b.WriteString("Bf")
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.' || r == ' ':
			upper = true
		}
	}
	out := b.String()
	if out == "" {
		return DefaultClassName
	}
	return out
}

// ClassNameFor derives a Java class name from a source path, so that
// hello-world.bf compiles to HelloWorld.java.
func ClassNameFor(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultClassName
	}
	return javaIdent(base)
}
