// Package drawer renders the step tree of a pipeline as a Graphviz DOT file.
//
// Each step position is a vertex linked to its parent, filled with the colour
// of its last status. When a measure is attached, vertices are labelled with
// their average duration and outlined from blue (fastest) to red (slowest).
package drawer
