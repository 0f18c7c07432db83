// Package renderer formats costbasis reports as markdown, CSV and PNG.
package renderer
