package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "market"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes. Orders, bids, and leases are keyed by their identifier
// tuples so range scans walk them in ascending order-id order, which is the
// processing order the settlement and match passes rely on.
var (
	OrderKeyPrefix             = []byte{0x01} // orders, keyed by owner + dseq + gseq + oseq
	OrderOpenIndexPrefix       = []byte{0x02} // open orders only, same key, for the match pass
	BidKeyPrefix               = []byte{0x03} // bids, keyed by order id + provider
	LeaseKeyPrefix             = []byte{0x04} // leases, keyed by order id + provider
	LeaseLiveIndexPrefix       = []byte{0x05} // active and insufficient_funds leases, for the settlement pass
	LeaseProviderIndexPrefix   = []byte{0x06} // provider + lease key, value = primary lease key
	NextOSeqPrefix             = []byte{0x07} // per-group order sequence counters
	LeaseCloseQueuePrefix      = []byte{0x08} // queued lease closes, applied at this block's close pass
	DeploymentCloseQueuePrefix = []byte{0x09} // queued deployment closes
	ParamsKey                  = []byte{0x0A} // module params
)

func orderIDSuffix(id OrderID) []byte {
	key := append([]byte(id.Owner), []byte("/")...)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], id.DSeq)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 4)...)
	binary.BigEndian.PutUint32(key[len(key)-4:], id.GSeq)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 4)...)
	binary.BigEndian.PutUint32(key[len(key)-4:], id.OSeq)
	return key
}

func bidIDSuffix(id BidID) []byte {
	key := append(orderIDSuffix(id.OrderID()), []byte("/")...)
	return append(key, []byte(id.Provider)...)
}

// GetOrderKey returns the store key for an order
func GetOrderKey(id OrderID) []byte {
	return append(append([]byte{}, OrderKeyPrefix...), orderIDSuffix(id)...)
}

// GetOrderOwnerPrefix returns the store prefix covering all of an owner's
// orders, suitable for range scans.
func GetOrderOwnerPrefix(owner string) []byte {
	key := append([]byte{}, OrderKeyPrefix...)
	key = append(key, []byte(owner)...)
	return append(key, []byte("/")...)
}

// GetDeploymentOrdersPrefix returns the store prefix covering all orders of
// one deployment.
func GetDeploymentOrdersPrefix(owner string, dseq uint64) []byte {
	key := GetOrderOwnerPrefix(owner)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], dseq)
	return append(key, []byte("/")...)
}

// GetOrderOpenIndexKey returns the open-order index key for an order
func GetOrderOpenIndexKey(id OrderID) []byte {
	return append(append([]byte{}, OrderOpenIndexPrefix...), orderIDSuffix(id)...)
}

// GetBidKey returns the store key for a bid
func GetBidKey(id BidID) []byte {
	return append(append([]byte{}, BidKeyPrefix...), bidIDSuffix(id)...)
}

// GetOrderBidsPrefix returns the store prefix covering all bids on one order
func GetOrderBidsPrefix(id OrderID) []byte {
	key := append(append([]byte{}, BidKeyPrefix...), orderIDSuffix(id)...)
	return append(key, []byte("/")...)
}

// GetLeaseKey returns the store key for a lease
func GetLeaseKey(id LeaseID) []byte {
	return append(append([]byte{}, LeaseKeyPrefix...), bidIDSuffix(id)...)
}

// GetDeploymentLeasesPrefix returns the store prefix covering all leases of
// one deployment.
func GetDeploymentLeasesPrefix(owner string, dseq uint64) []byte {
	key := append([]byte{}, LeaseKeyPrefix...)
	key = append(key, []byte(owner)...)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], dseq)
	return append(key, []byte("/")...)
}

// GetLeaseOwnerPrefix returns the store prefix covering all leases under one
// tenant's deployments.
func GetLeaseOwnerPrefix(owner string) []byte {
	key := append([]byte{}, LeaseKeyPrefix...)
	key = append(key, []byte(owner)...)
	return append(key, []byte("/")...)
}

// GetLeaseLiveIndexKey returns the live-lease index key for a lease
func GetLeaseLiveIndexKey(id LeaseID) []byte {
	return append(append([]byte{}, LeaseLiveIndexPrefix...), bidIDSuffix(id)...)
}

// GetLeaseProviderIndexKey returns the provider index key for a lease
func GetLeaseProviderIndexKey(id LeaseID) []byte {
	key := GetLeaseProviderPrefix(id.Provider)
	return append(key, bidIDSuffix(id)...)
}

// GetLeaseProviderPrefix returns the store prefix covering one provider's
// leases in the provider index.
func GetLeaseProviderPrefix(provider string) []byte {
	key := append([]byte{}, LeaseProviderIndexPrefix...)
	key = append(key, []byte(provider)...)
	return append(key, []byte("/")...)
}

// GetNextOSeqKey returns the key of a group's order sequence counter
func GetNextOSeqKey(owner string, dseq uint64, gseq uint32) []byte {
	key := append([]byte{}, NextOSeqPrefix...)
	key = append(key, []byte(owner)...)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], dseq)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 4)...)
	binary.BigEndian.PutUint32(key[len(key)-4:], gseq)
	return key
}

// GetLeaseCloseQueueKey returns the close-queue key for a lease
func GetLeaseCloseQueueKey(id LeaseID) []byte {
	return append(append([]byte{}, LeaseCloseQueuePrefix...), bidIDSuffix(id)...)
}

// GetDeploymentCloseQueueKey returns the close-queue key for a deployment
func GetDeploymentCloseQueueKey(owner string, dseq uint64) []byte {
	key := append([]byte{}, DeploymentCloseQueuePrefix...)
	key = append(key, []byte(owner)...)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], dseq)
	return key
}
