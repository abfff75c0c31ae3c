// Package levels loads, checks and generates nano puzzle levels.
//
// Level files are YAML. Each document is checked against an embedded JSON
// Schema before it is decoded, then checked again for board consistency
// (coordinates in bounds, no overlapping stamps).
package levels
