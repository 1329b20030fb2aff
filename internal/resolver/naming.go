package resolver

import (
	"unicode"
	"unicode/utf8"

	"github.com/jfxcore/compiler/internal/config"
)

// startsLower reports whether name follows the property naming convention.
func startsLower(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsLower(r)
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// GetterName is "getName", or "isName" for boolean getters.
func GetterName(name string, boolean bool) string {
	if boolean {
		return config.BooleanGetterPrefix + capitalize(name)
	}
	return config.GetterPrefix + capitalize(name)
}

func SetterName(name string) string {
	return config.SetterPrefix + capitalize(name)
}

func PropertyGetterName(name string) string {
	return name + config.PropertyGetterSuffix
}

// getterNames lists the names a getter for name may have. Alternates are
// only derived for names that start lower-case.
func getterNames(name string, verbatim bool) []string {
	if verbatim || !startsLower(name) {
		return []string{name}
	}
	return []string{name, GetterName(name, false), GetterName(name, true)}
}

func setterNames(name string, verbatim bool) []string {
	if verbatim || !startsLower(name) {
		return []string{name}
	}
	return []string{name, SetterName(name)}
}
