package types

const (
	// ModuleName defines the module name. It doubles as the module account
	// holding all escrowed funds.
	ModuleName = "escrow"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	AccountKeyPrefix    = []byte{0x01} // prefix for accounts, keyed by scope + xid
	AccountOwnerPrefix  = []byte{0x02} // owner index, keyed by owner + scope + xid
	ParamsKey           = []byte{0x03} // key for module params
)

// GetAccountKey returns the store key for an escrow account
func GetAccountKey(id AccountID) []byte {
	key := append([]byte{}, AccountKeyPrefix...)
	key = append(key, []byte(id.Scope)...)
	key = append(key, []byte("/")...)
	return append(key, []byte(id.XID)...)
}

// GetAccountOwnerIndexKey returns the owner index key for an account. The
// value stored under it is the primary account key.
func GetAccountOwnerIndexKey(owner string, id AccountID) []byte {
	key := append(GetAccountOwnerPrefix(owner), []byte(id.Scope)...)
	key = append(key, []byte("/")...)
	return append(key, []byte(id.XID)...)
}

// GetAccountOwnerPrefix returns the owner index prefix covering all of an
// owner's accounts, suitable for range scans.
func GetAccountOwnerPrefix(owner string) []byte {
	key := append([]byte{}, AccountOwnerPrefix...)
	key = append(key, []byte(owner)...)
	return append(key, []byte("/")...)
}
