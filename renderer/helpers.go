package renderer

import "strings"

// row returns the cells of a markdown table row with their pipes escaped.
func row(cells ...string) []string {
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return cells
}
