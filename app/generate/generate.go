// Package generate produces valid and invalid input strings for dashboard forms.
package generate

import (
	"fmt"
	"math/rand/v2"
	"net/netip"
	"strings"
)

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	alphanumeric = lowerLetters + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base58       = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// String returns random alphanumeric string of 10 chars
func String() string {
	return pick(alphanumeric, 10)
}

// Letters returns random lowercase string of 10 letters
func Letters() string {
	return pick(lowerLetters, 10)
}

// Password returns random password acceptable by the wallet form (at least 6 chars)
func Password() string {
	return pick(alphanumeric, 12)
}

// Email returns random address in example.com domain
func Email() string {
	return pick(lowerLetters, 8) + "@example.com"
}

// IPv4 returns random public ipv4 with /24 mask
func IPv4() string {
	return RandomizePublicIPv4() + "/24"
}

// GatewayFor returns the first host address of the /24 network holding cidr ip
func GatewayFor(cidr string) string {
	pfx, err := netip.ParsePrefix(cidr)
	if err != nil {
		return ""
	}
	gw := pfx.Masked().Addr().Next()
	return gw.String()
}

// RandomizePublicIPv4 returns random ipv4 address which is not private, loopback,
// multicast, link-local or reserved
func RandomizePublicIPv4() string {
	for {
		addr := netip.AddrFrom4([4]byte{byte(rand.IntN(223) + 1), byte(rand.IntN(256)), byte(rand.IntN(256)), byte(rand.IntN(253) + 1)})
		if IsPublic(addr) {
			return addr.String()
		}
	}
}

// IsPublic reports whether ipv4 addr can be used as node public ip
func IsPublic(addr netip.Addr) bool {
	if !addr.Is4() || addr.IsPrivate() || addr.IsLoopback() || addr.IsMulticast() ||
		addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return false
	}
	b := addr.As4()
	switch {
	case b[0] == 0, b[0] >= 240: // "this network" and reserved
		return false
	case b[0] == 100 && b[1]&0xC0 == 64: // carrier-grade nat 100.64.0.0/10
		return false
	}
	return true
}

// InvalidIPv4 returns a string which is not a valid ipv4 cidr
func InvalidIPv4() string {
	cases := InvalidIPv4Cases()
	return cases[rand.IntN(len(cases))]
}

// InvalidIPv4Cases returns inputs rejected by the public config ipv4 field with "IPv4 is not valid."
func InvalidIPv4Cases() []string {
	return []string{String(), "1.0.0.0/66", "239.255.255/17", "239.15.35.78.5/25", "239.15.35.78.5", " ", "*.#.@.!|+-"}
}

// InvalidGateway returns a string which is not a valid gateway address
func InvalidGateway() string {
	cases := []string{"1.1.1.1/24", "239.255.255", "239.15.35.78.5", "*.#.@.!|+-", Letters()}
	return cases[rand.IntN(len(cases))]
}

// ValidAmount returns amount between 0.001 and 0.999 with 3 decimals
func ValidAmount() string {
	return fmt.Sprintf("0.%03d", rand.IntN(999)+1)
}

// InvalidAmount returns positive amount with more than 3 decimals
func InvalidAmount() string {
	return fmt.Sprintf("%d.%04d", rand.IntN(10), rand.IntN(9000)+1000)
}

// InvalidAmountNegative returns negative amount
func InvalidAmountNegative() string {
	return "-" + ValidAmount()
}

// InvalidAddress returns a 48 char string starting with 5 from the base58 alphabet, which
// looks like an ss58 address but fails its checksum
func InvalidAddress() string {
	return "5" + pick(base58, 47)
}

func pick(alphabet string, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return sb.String()
}
