// Package exporter serializes the merged table to CSV bytes with a
// UTF-8 BOM so spreadsheet tools render non-ASCII columns correctly.
package exporter
