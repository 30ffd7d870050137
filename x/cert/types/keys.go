package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "cert"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	CertificateKeyPrefix = []byte{0x01} // prefix for certificates, keyed by owner + serial
	NextSerialKey        = []byte{0x02} // key for the global serial counter
	ParamsKey            = []byte{0x03} // key for module params
)

// GetCertificateKey returns the store key for a certificate
func GetCertificateKey(owner string, serial uint64) []byte {
	key := append(GetCertificateOwnerPrefix(owner), make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], serial)
	return key
}

// GetCertificateOwnerPrefix returns the store prefix covering all of an
// owner's certificates, suitable for range scans.
func GetCertificateOwnerPrefix(owner string) []byte {
	key := append([]byte{}, CertificateKeyPrefix...)
	key = append(key, []byte(owner)...)
	return append(key, []byte("/")...)
}

// ParseCertificateKey extracts the serial from a certificate store key laid
// out as prefix + owner + "/" + big-endian serial.
func ParseCertificateKey(key []byte) (serial uint64, ok bool) {
	if len(key) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-8:]), true
}
