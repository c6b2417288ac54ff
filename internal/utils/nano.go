package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	// RecordIDSize is the length of the primary keys the store generates.
	RecordIDSize     = 24
	recordIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func NanoID() string {
	return NanoIDSize(RecordIDSize)
}

func NanoIDSize(size int) string {
	if size <= 0 {
		size = RecordIDSize
	}

	return gonanoid.MustGenerate(recordIDAlphabet, size)
}
