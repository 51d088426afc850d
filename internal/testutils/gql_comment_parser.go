package testutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fixtures carry their settings as comment lines:
//
//	# option:passes: skip_unreachable_node,skip_redundant_nodes
//	# option:parallelism: 4

func findOption(t TestingT, optionName, source string) (string, bool) {
	t.Helper()

	pattern := fmt.Sprintf("(?m)^# option:%s:\\s*([^\\s]+)$", regexp.QuoteMeta(optionName))
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Logf("option %s value is not found", optionName)
		return "", false
	}

	return ss[1], true
}

func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	value, _ := findOption(t, optionName, source)
	return value
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	value, _ := findOption(t, optionName, source)
	return value == "true"
}

func FindOptionInt(t TestingT, optionName, source string) int {
	t.Helper()

	value, ok := findOption(t, optionName, source)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		t.Fatalf("option %s: %v", optionName, err)
	}
	return n
}

// FindOptionList splits a comma separated option value.
func FindOptionList(t TestingT, optionName, source string) []string {
	t.Helper()

	value, ok := findOption(t, optionName, source)
	if !ok {
		return nil
	}
	return strings.Split(value, ",")
}
