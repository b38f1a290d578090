// Package spot normalizes raw tourism-spot documents into fixed eight-column
// records: name, kana, three category levels, postal code and the written
// and spoken forms of the address.
package spot
