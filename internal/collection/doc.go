// Package collection routes uploads to destination sub-collections based on
// parsed content type, term, and the reference academic year.
package collection
