package api

import (
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// Region names used across placement attributes and geo policy. Providers
// advertise one of these; the gateway resolves client IPs to the same set.
var regionNames = map[string]bool{
	"north_america": true,
	"south_america": true,
	"europe":        true,
	"asia":          true,
	"africa":        true,
	"oceania":       true,
	"antarctica":    true,
}

// IsKnownRegion reports whether name is a recognized region
func IsKnownRegion(name string) bool {
	return regionNames[name]
}

// RegionResolver maps an IP address to an ISO country code and a region
// name. Implementations must be safe for concurrent use.
type RegionResolver interface {
	Country(ip string) (string, error)
	Region(ip string) (string, error)
	Close() error
}

// GeoResolver resolves IPs against a local MaxMind GeoLite2 database. A
// local database keeps lookups off the network so the rate limiter can
// consult it on every request.
type GeoResolver struct {
	mu     sync.RWMutex
	reader *geoip2.Reader
	dbPath string
}

// NewGeoResolver opens the MaxMind database at dbPath. When dbPath is
// empty, common install locations and GEOIP_DB_PATH are tried.
func NewGeoResolver(dbPath string) (*GeoResolver, error) {
	if dbPath == "" {
		possiblePaths := []string{
			"/usr/share/GeoIP/GeoLite2-Country.mmdb",
			"/var/lib/GeoIP/GeoLite2-Country.mmdb",
			"./GeoLite2-Country.mmdb",
			os.Getenv("GEOIP_DB_PATH"),
		}

		for _, path := range possiblePaths {
			if path == "" {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				dbPath = path
				break
			}
		}

		if dbPath == "" {
			return nil, fmt.Errorf("GeoIP database not found. Set GEOIP_DB_PATH or place GeoLite2-Country.mmdb in a standard location")
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("GeoIP database not found at %s", dbPath)
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	return &GeoResolver{
		reader: reader,
		dbPath: dbPath,
	}, nil
}

// Country returns the ISO country code for an IP address. Loopback and
// private addresses resolve to "private".
func (g *GeoResolver) Country(ipStr string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.reader == nil {
		return "", fmt.Errorf("GeoIP database not loaded")
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address: %s", ipStr)
	}

	if ip.IsLoopback() || ip.IsPrivate() {
		return "private", nil
	}

	record, err := g.reader.Country(ip)
	if err != nil {
		return "", fmt.Errorf("GeoIP lookup failed: %w", err)
	}

	if record.Country.IsoCode == "" {
		return "unknown", nil
	}

	return record.Country.IsoCode, nil
}

// Region returns the normalized region name for an IP address
func (g *GeoResolver) Region(ipStr string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.reader == nil {
		return "", fmt.Errorf("GeoIP database not loaded")
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address: %s", ipStr)
	}

	if ip.IsLoopback() || ip.IsPrivate() {
		return "private", nil
	}

	record, err := g.reader.Country(ip)
	if err != nil {
		return "", fmt.Errorf("GeoIP lookup failed: %w", err)
	}

	return continentToRegion(record.Continent.Code), nil
}

// Close closes the database reader
func (g *GeoResolver) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.reader != nil {
		return g.reader.Close()
	}
	return nil
}

// continentToRegion maps MaxMind continent codes to region names
func continentToRegion(code string) string {
	switch code {
	case "NA":
		return "north_america"
	case "SA":
		return "south_america"
	case "EU":
		return "europe"
	case "AS":
		return "asia"
	case "AF":
		return "africa"
	case "OC":
		return "oceania"
	case "AN":
		return "antarctica"
	default:
		return "unknown"
	}
}

// VerifyRegionClaim checks whether an IP resolves to the claimed region.
// "private" and "unknown" resolutions never match a real region so stale
// or local claims cannot be attested.
func VerifyRegionClaim(resolver RegionResolver, ipStr, claimedRegion string) (string, bool, error) {
	if resolver == nil {
		return "", false, fmt.Errorf("region resolution is not configured")
	}

	actual, err := resolver.Region(ipStr)
	if err != nil {
		return "", false, err
	}

	return actual, actual == claimedRegion, nil
}
