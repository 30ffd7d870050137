package api

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
)

// Validation constants
const (
	MaxRequestSize    = 1 << 20 // 1 MB
	MaxUsernameLength = 50
	MinUsernameLength = 3
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxMemoLength     = 256
	MaxAmountLength   = 30
	MaxAddressLength  = 100
	MaxPubKeyLength   = 4096
)

var (
	// alphanumeric with underscore and hyphen
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// Bech32 address format (vela1...)
	bech32Regex = regexp.MustCompile(`^[a-z]{3,10}1[a-z0-9]{38,100}$`)

	// Numeric string (positive decimal)
	numericRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

	// Token denomination
	denomRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/-]{2,127}$`)

	// Escrow account scopes accepted over the API
	escrowScopeRegex = regexp.MustCompile(`^(deployment|bid)$`)

	passwordUpperRegex = regexp.MustCompile(`[A-Z]`)
	passwordLowerRegex = regexp.MustCompile(`[a-z]`)
	passwordDigitRegex = regexp.MustCompile(`[0-9]`)

	heightRegex = regexp.MustCompile(`^[0-9]+$`)

	// Usernames that collide with operational identities.
	reservedUsernames = map[string]bool{
		"admin":  true,
		"root":   true,
		"system": true,
		"api":    true,
		"vela":   true,
		"test":   true,
	}
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	if !v.HasErrors() {
		return ""
	}
	var sb strings.Builder
	for i, err := range v.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// ===================  Input Sanitization ====================

// SanitizeString removes potentially dangerous characters and HTML
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	// Escape HTML entities
	input = html.EscapeString(input)
	// Trim whitespace
	input = strings.TrimSpace(input)
	return input
}

// =================== Username Validation ===================

// ValidateUsername validates username format and length
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	}

	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	if reservedUsernames[strings.ToLower(username)] {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// =================== Password Validation ===================

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}

	if !passwordUpperRegex.MatchString(password) ||
		!passwordLowerRegex.MatchString(password) ||
		!passwordDigitRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}

// =================== Address Validation ===================

// ValidateAddress validates blockchain address format
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address is required")
	}

	address = strings.TrimSpace(address)

	if len(address) > MaxAddressLength {
		return fmt.Errorf("address too long")
	}

	// Try to parse as Cosmos SDK address
	_, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		// Check if it matches bech32 format at least
		if !bech32Regex.MatchString(address) {
			return fmt.Errorf("invalid address format")
		}
	}

	return nil
}

// =================== Amount Validation ===================

// ValidateAmount validates amount strings
func ValidateAmount(amount string) error {
	if amount == "" {
		return fmt.Errorf("amount is required")
	}

	amount = strings.TrimSpace(amount)

	if len(amount) > MaxAmountLength {
		return fmt.Errorf("amount too long")
	}

	if !numericRegex.MatchString(amount) {
		return fmt.Errorf("amount must be a positive number")
	}

	_, err := math.LegacyNewDecFromStr(amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	return nil
}

// ValidateCoin validates an amount/denom pair and parses it
func ValidateCoin(amount, denom string) (sdk.Coin, error) {
	if err := ValidateAmount(amount); err != nil {
		return sdk.Coin{}, err
	}
	if err := ValidateDenom(denom); err != nil {
		return sdk.Coin{}, err
	}
	return CoinFromString(amount, denom)
}

// =================== Token/Denom Validation ===================

// ValidateDenom validates token denomination
func ValidateDenom(denom string) error {
	if denom == "" {
		return fmt.Errorf("denom is required")
	}

	denom = strings.TrimSpace(denom)

	if len(denom) < 3 || len(denom) > 128 {
		return fmt.Errorf("denom must be between 3 and 128 characters")
	}

	if !denomRegex.MatchString(denom) {
		return fmt.Errorf("invalid denom format")
	}

	return nil
}

// =================== Escrow Validation ===================

// ValidateEscrowScope validates an escrow account scope
func ValidateEscrowScope(scope string) error {
	if scope == "" {
		return fmt.Errorf("scope is required")
	}

	if !escrowScopeRegex.MatchString(scope) {
		return fmt.Errorf("scope must be 'deployment' or 'bid'")
	}

	return nil
}

// =================== Memo Validation ===================

// ValidateMemo validates transaction memo
func ValidateMemo(memo string) error {
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("memo must not exceed %d characters", MaxMemoLength)
	}

	// Check for null bytes and control characters
	for _, r := range memo {
		if r == 0 || (r < 32 && r != '\n' && r != '\r' && r != '\t') {
			return fmt.Errorf("memo contains invalid characters")
		}
	}

	return nil
}

// =================== Query Parameter Validation ===================

// ValidateHeight validates a block height query parameter.
func ValidateHeight(heightStr string) (int64, error) {
	if heightStr == "" {
		return 0, fmt.Errorf("height is required")
	}

	if !heightRegex.MatchString(heightStr) {
		return 0, fmt.Errorf("height must be a positive integer")
	}

	height, err := strconv.ParseInt(heightStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid height format")
	}

	if height > 1e12 {
		return 0, fmt.Errorf("height too large")
	}

	return height, nil
}

// =================== Request Validation ===================

// ValidateRegisterRequest validates registration request
func ValidateRegisterRequest(req *RegisterRequest) error {
	errors := &ValidationErrors{}

	if err := ValidateUsername(req.Username); err != nil {
		errors.Add("username", err.Error())
	}

	if err := ValidatePassword(req.Password); err != nil {
		errors.Add("password", err.Error())
	}

	if errors.HasErrors() {
		return errors
	}

	req.Username = SanitizeString(req.Username)

	return nil
}

// ValidateLoginRequest validates login request
func ValidateLoginRequest(req *LoginRequest) error {
	errors := &ValidationErrors{}

	if req.Username == "" {
		errors.Add("username", "username is required")
	} else if len(req.Username) > MaxUsernameLength {
		errors.Add("username", "username too long")
	}

	if req.Password == "" {
		errors.Add("password", "password is required")
	} else if len(req.Password) > MaxPasswordLength {
		errors.Add("password", "password too long")
	}

	if errors.HasErrors() {
		return errors
	}

	req.Username = SanitizeString(req.Username)

	return nil
}

// ValidateSendTokensRequest validates token send request
func ValidateSendTokensRequest(req *SendTokensRequest) error {
	errors := &ValidationErrors{}

	if err := ValidateAddress(req.ToAddress); err != nil {
		errors.Add("to_address", err.Error())
	}

	if err := ValidateAmount(req.Amount); err != nil {
		errors.Add("amount", err.Error())
	}

	if err := ValidateDenom(req.Denom); err != nil {
		errors.Add("denom", err.Error())
	}

	if req.Memo != "" {
		if err := ValidateMemo(req.Memo); err != nil {
			errors.Add("memo", err.Error())
		}
	}

	if errors.HasErrors() {
		return errors
	}

	req.ToAddress = SanitizeString(req.ToAddress)
	req.Memo = SanitizeString(req.Memo)

	return nil
}

// ValidateCreateDeploymentRequest validates deployment creation
func ValidateCreateDeploymentRequest(req *CreateDeploymentRequest) error {
	errors := &ValidationErrors{}

	if len(req.Groups) == 0 {
		errors.Add("groups", "at least one group is required")
	}

	seen := make(map[string]bool, len(req.Groups))
	for i, g := range req.Groups {
		field := fmt.Sprintf("groups[%d]", i)

		if g.Name == "" {
			errors.Add(field+".name", "group name is required")
		} else if seen[g.Name] {
			errors.Add(field+".name", "duplicate group name")
		}
		seen[g.Name] = true

		if len(g.Resources) == 0 {
			errors.Add(field+".resources", "at least one resource is required")
		}
		for j, r := range g.Resources {
			if r.CPU == 0 || r.Memory == 0 || r.Count == 0 {
				errors.Add(fmt.Sprintf("%s.resources[%d]", field, j), "cpu, memory and count must be positive")
			}
		}

		if err := ValidateAmount(g.MaxPrice); err != nil {
			errors.Add(field+".max_price", err.Error())
		}
	}

	if err := ValidateAmount(req.Deposit); err != nil {
		errors.Add("deposit", err.Error())
	}

	if req.Memo != "" {
		if err := ValidateMemo(req.Memo); err != nil {
			errors.Add("memo", err.Error())
		}
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ValidatePlaceBidRequest validates a provider bid
func ValidatePlaceBidRequest(req *PlaceBidRequest) error {
	errors := &ValidationErrors{}

	if err := ValidateAddress(req.Owner); err != nil {
		errors.Add("owner", err.Error())
	}

	if req.DSeq == 0 {
		errors.Add("dseq", "dseq must be positive")
	}

	if err := ValidateAmount(req.Price); err != nil {
		errors.Add("price", err.Error())
	}

	if err := ValidateAmount(req.Deposit); err != nil {
		errors.Add("deposit", err.Error())
	}

	if req.Memo != "" {
		if err := ValidateMemo(req.Memo); err != nil {
			errors.Add("memo", err.Error())
		}
	}

	if errors.HasErrors() {
		return errors
	}

	req.Owner = SanitizeString(req.Owner)

	return nil
}

// ValidateCloseLeaseRequest validates a lease close request
func ValidateCloseLeaseRequest(req *CloseLeaseRequest) error {
	errors := &ValidationErrors{}

	if err := ValidateAddress(req.Owner); err != nil {
		errors.Add("owner", err.Error())
	}

	if err := ValidateAddress(req.Provider); err != nil {
		errors.Add("provider", err.Error())
	}

	if req.DSeq == 0 {
		errors.Add("dseq", "dseq must be positive")
	}

	if req.Memo != "" {
		if err := ValidateMemo(req.Memo); err != nil {
			errors.Add("memo", err.Error())
		}
	}

	if errors.HasErrors() {
		return errors
	}

	req.Owner = SanitizeString(req.Owner)
	req.Provider = SanitizeString(req.Provider)

	return nil
}

// ValidateIssueCertificateRequest validates certificate issuance
func ValidateIssueCertificateRequest(req *IssueCertificateRequest) error {
	errors := &ValidationErrors{}

	pubKey := strings.TrimSpace(req.PubKey)
	if pubKey == "" {
		errors.Add("pub_key", "pub_key is required")
	} else if len(pubKey) > MaxPubKeyLength {
		errors.Add("pub_key", "pub_key too long")
	} else if !strings.Contains(pubKey, "BEGIN PUBLIC KEY") {
		errors.Add("pub_key", "pub_key must be a PEM-encoded public key")
	}

	if req.NotAfter == "" {
		errors.Add("not_after", "not_after is required")
	} else {
		notAfter, err := time.Parse(time.RFC3339, req.NotAfter)
		if err != nil {
			errors.Add("not_after", "not_after must be RFC 3339")
		} else if !notAfter.After(time.Now()) {
			errors.Add("not_after", "not_after must be in the future")
		}
	}

	if req.Memo != "" {
		if err := ValidateMemo(req.Memo); err != nil {
			errors.Add("memo", err.Error())
		}
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ValidateVerifyRegionRequest validates a provider region claim
func ValidateVerifyRegionRequest(req *VerifyRegionRequest) error {
	errors := &ValidationErrors{}

	if err := ValidateAddress(req.Provider); err != nil {
		errors.Add("provider", err.Error())
	}

	if !IsKnownRegion(req.Region) {
		errors.Add("region", "unknown region")
	}

	if errors.HasErrors() {
		return errors
	}

	req.Provider = SanitizeString(req.Provider)

	return nil
}

// =================== Helper Function for Gin Context ===================

// ValidateAndBindJSON validates and binds JSON with size limit
func ValidateAndBindJSON(c *gin.Context, obj interface{}) error {
	// Check content length
	if c.Request.ContentLength > MaxRequestSize {
		return fmt.Errorf("request body too large (max %d bytes)", MaxRequestSize)
	}

	// Bind JSON
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// GetUserFromContext safely retrieves user info from context
func GetUserFromContext(c *gin.Context) (userID, username, address string, err error) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return "", "", "", fmt.Errorf("user not authenticated")
	}

	usernameVal, _ := c.Get("username")
	addressVal, _ := c.Get("address")

	userID, _ = userIDVal.(string)
	username, _ = usernameVal.(string)
	address, _ = addressVal.(string)

	if userID == "" {
		return "", "", "", fmt.Errorf("invalid user context")
	}

	return userID, username, address, nil
}
