package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 16
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

const (
	InspectionIDPrefix = "insp"
	ImageIDPrefix      = "img"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// PrefixedID returns "<prefix>_<nanoid>", e.g. insp_3kTMd92jLqP0aZxB.
func PrefixedID(prefix string) string {
	if prefix == "" {
		return NanoID()
	}
	return prefix + "_" + NanoID()
}

func NewInspectionID() string {
	return PrefixedID(InspectionIDPrefix)
}

func NewImageID() string {
	return PrefixedID(ImageIDPrefix)
}
