package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// NameMustBeValid panics if the name does not follow the naming convention.
//
// A name is a dot separated hierarchy such as "Cache.TopPort". Each element
// must be non-empty, start with a capital letter and must not contain "_",
// "-" or quotes. Elements of a series use brackets, as in "Bank[2]".
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %s", name, err))
	}
}

func validateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		if err := validateNameElement(elem); err != nil {
			return err
		}
	}

	return nil
}

func validateNameElement(elem string) error {
	base, indices, found := strings.Cut(elem, "[")

	if base == "" {
		return fmt.Errorf("element must not be empty")
	}

	if strings.ContainsAny(base, "_-\"'") {
		return fmt.Errorf("element %s must not contain _, -, or quotes", base)
	}

	if base[0] < 'A' || base[0] > 'Z' {
		return fmt.Errorf("element %s must start with a capital letter", base)
	}

	if !found {
		return nil
	}

	return validateIndices("[" + indices)
}

func validateIndices(s string) error {
	for s != "" {
		if s[0] != '[' {
			return fmt.Errorf("unexpected %q after index", s)
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			return fmt.Errorf("bracket must match")
		}

		if _, err := strconv.Atoi(s[1:end]); err != nil {
			return fmt.Errorf("index %q must be an integer", s[1:end])
		}

		s = s[end+1:]
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name for the index-th element of a series.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
