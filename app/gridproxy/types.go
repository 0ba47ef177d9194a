package gridproxy

// Resources is capacity record as reported by grid proxy
type Resources struct {
	CRU   uint64 `json:"cru"`
	SRU   uint64 `json:"sru"`
	HRU   uint64 `json:"hru"`
	MRU   uint64 `json:"mru"`
	IPv4U uint64 `json:"ipv4u"`
}

// PublicConfig is the node public network configuration
type PublicConfig struct {
	IPv4   string `json:"ipv4"`
	GW4    string `json:"gw4"`
	IPv6   string `json:"ipv6"`
	GW6    string `json:"gw6"`
	Domain string `json:"domain"`
}

// Node is a compute resource registered on the chain
type Node struct {
	ID                string       `json:"id"`
	NodeID            int          `json:"nodeId"`
	FarmID            int          `json:"farmId"`
	TwinID            int          `json:"twinId"`
	Country           string       `json:"country"`
	City              string       `json:"city"`
	GridVersion       int          `json:"gridVersion"`
	Uptime            int64        `json:"uptime"`
	Created           int64        `json:"created"`
	FarmingPolicyID   int          `json:"farmingPolicyId"`
	UpdatedAt         int64        `json:"updatedAt"`
	TotalResources    Resources    `json:"total_resources"`
	UsedResources     Resources    `json:"used_resources"`
	PublicConfig      PublicConfig `json:"publicConfig"`
	Status            string       `json:"status"`
	CertificationType string       `json:"certificationType"`
	Dedicated         bool         `json:"dedicated"`
	RentContractID    int          `json:"rentContractId"`
	RentedByTwinID    int          `json:"rentedByTwinId"`
	SerialNumber      string       `json:"serialNumber"`
	ExtraFee          uint64       `json:"extraFee"`
}

// Usage returns used/total percentage for every resource kind, 0 when total is 0
func (n Node) Usage() (cru, sru, hru, mru float64) {
	pct := func(used, total uint64) float64 {
		if total == 0 {
			return 0
		}
		return float64(used) / float64(total) * 100
	}
	return pct(n.UsedResources.CRU, n.TotalResources.CRU), pct(n.UsedResources.SRU, n.TotalResources.SRU),
		pct(n.UsedResources.HRU, n.TotalResources.HRU), pct(n.UsedResources.MRU, n.TotalResources.MRU)
}

// Twin is an on-chain identity record associated with a wallet address
type Twin struct {
	TwinID    int    `json:"twinId"`
	AccountID string `json:"accountId"`
	Relay     string `json:"relay"`
	PublicKey string `json:"publicKey"`
}

// PublicIP is a farm public ip
type PublicIP struct {
	ID         string `json:"id"`
	IP         string `json:"ip"`
	FarmID     string `json:"farmId"`
	ContractID int    `json:"contractId"`
	Gateway    string `json:"gateway"`
}

// Farm is a named collection of nodes owned by a twin
type Farm struct {
	FarmID            int        `json:"farmId"`
	Name              string     `json:"name"`
	TwinID            int        `json:"twinId"`
	PricingPolicyID   int        `json:"pricingPolicyId"`
	CertificationType string     `json:"certificationType"`
	StellarAddress    string     `json:"stellarAddress"`
	Dedicated         bool       `json:"dedicated"`
	PublicIPs         []PublicIP `json:"publicIps"`
}
