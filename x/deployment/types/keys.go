package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "deployment"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	DeploymentKeyPrefix = []byte{0x01} // prefix for deployments, keyed by owner + dseq
	GroupKeyPrefix      = []byte{0x02} // prefix for groups, keyed by owner + dseq + gseq
	NextDSeqKey         = []byte{0x03} // key for the global deployment sequence counter
	ParamsKey           = []byte{0x04} // key for module params
)

// GetDeploymentKey returns the store key for a deployment
func GetDeploymentKey(id DeploymentID) []byte {
	key := append(GetDeploymentOwnerPrefix(id.Owner), make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], id.DSeq)
	return key
}

// GetDeploymentOwnerPrefix returns the store prefix covering all of an
// owner's deployments, suitable for range scans.
func GetDeploymentOwnerPrefix(owner string) []byte {
	key := append([]byte{}, DeploymentKeyPrefix...)
	key = append(key, []byte(owner)...)
	return append(key, []byte("/")...)
}

// GetGroupKey returns the store key for a group
func GetGroupKey(id GroupID) []byte {
	key := append(GetDeploymentGroupsPrefix(id.DeploymentID()), make([]byte, 4)...)
	binary.BigEndian.PutUint32(key[len(key)-4:], id.GSeq)
	return key
}

// GetDeploymentGroupsPrefix returns the store prefix covering all groups of
// one deployment, suitable for range scans.
func GetDeploymentGroupsPrefix(id DeploymentID) []byte {
	key := append([]byte{}, GroupKeyPrefix...)
	key = append(key, []byte(id.Owner)...)
	key = append(key, []byte("/")...)
	key = append(key, make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], id.DSeq)
	return append(key, []byte("/")...)
}
