// Package util parses human-readable byte sizes such as "64MB".
package util
