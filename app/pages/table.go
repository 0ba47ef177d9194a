package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DateLayout is the format of created/updated timestamps in node details
const DateLayout = "01-02-06, 03:04 PM"

// NodeDetails is a node as rendered in the expanded row of "Your Nodes" table
type NodeDetails struct {
	IPv4              string
	GW4               string
	IPv6              string
	GW6               string
	Domain            string
	NodeID            int
	FarmID            int
	TwinID            int
	Country           string
	City              string
	Created           string
	FarmingPolicyID   int
	UpdatedAt         string
	CRU               float64 // usage percent
	SRU               float64
	HRU               float64
	MRU               float64
	Status            string
	CertificationType string
	SerialNumber      string
	Uptime            int64
}

const (
	nodeRowsSelector    = "table tbody tr"
	nodeDetailsSelector = ".node-details"
	detailItemSelector  = ".v-list-item"
	detailLabelSelector = ".v-list-item-title"
	detailValueSelector = ".v-list-item-subtitle"
	progressSelector    = "[role=progressbar]"
)

// ParseNodeIDs returns node ids from the first column of the nodes table
func ParseNodeIDs(html string) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("can't parse html: %w", err)
	}
	res := []int{}
	doc.Find(nodeRowsSelector).Each(func(_ int, row *goquery.Selection) {
		if row.Find(nodeDetailsSelector).Length() > 0 {
			return // expanded details row
		}
		id, err := strconv.Atoi(strings.TrimSpace(row.Find("td").First().Text()))
		if err != nil {
			return // "no data" or loader row
		}
		res = append(res, id)
	})
	return res, nil
}

// ParseNodeTable extracts every expanded node details block from page html
func ParseNodeTable(html string) ([]NodeDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("can't parse html: %w", err)
	}

	res := []NodeDetails{}
	var parseErr error
	doc.Find(nodeDetailsSelector).EachWithBreak(func(i int, block *goquery.Selection) bool {
		nd, err := parseDetailsBlock(block)
		if err != nil {
			parseErr = fmt.Errorf("node details block %d: %w", i, err)
			return false
		}
		res = append(res, nd)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return res, nil
}

func parseDetailsBlock(block *goquery.Selection) (NodeDetails, error) {
	values := map[string]string{}
	block.Find(detailItemSelector).Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Find(detailLabelSelector).First().Text())
		if label == "" {
			return
		}
		if bar := item.Find(progressSelector).First(); bar.Length() > 0 {
			if v, ok := bar.Attr("aria-valuenow"); ok {
				values[label] = strings.TrimSpace(v)
				return
			}
		}
		values[label] = strings.TrimSpace(item.Find(detailValueSelector).First().Text())
	})

	nd := NodeDetails{
		IPv4:              values["IPv4"],
		GW4:               values["Gateway IPv4"],
		IPv6:              values["IPv6"],
		GW6:               values["Gateway IPv6"],
		Domain:            values["Domain"],
		Country:           values["Country"],
		City:              values["City"],
		Created:           values["Created"],
		UpdatedAt:         values["Updated At"],
		Status:            values["Status"],
		CertificationType: values["Certification Type"],
		SerialNumber:      values["Serial Number"],
	}

	// "-" is shown for an empty public config field
	for _, f := range []*string{&nd.IPv4, &nd.GW4, &nd.IPv6, &nd.GW6, &nd.Domain} {
		if *f == "-" {
			*f = ""
		}
	}

	ints := []struct {
		label string
		dst   *int
	}{
		{"Node ID", &nd.NodeID}, {"Farm ID", &nd.FarmID}, {"Twin ID", &nd.TwinID}, {"Farming Policy ID", &nd.FarmingPolicyID},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(values[f.label])
		if err != nil {
			return NodeDetails{}, fmt.Errorf("bad %s %q: %w", f.label, values[f.label], err)
		}
		*f.dst = v
	}

	usage := []struct {
		label string
		dst   *float64
	}{
		{"CRU", &nd.CRU}, {"SRU", &nd.SRU}, {"HRU", &nd.HRU}, {"MRU", &nd.MRU},
	}
	for _, f := range usage {
		v, err := parsePercent(values[f.label])
		if err != nil {
			return NodeDetails{}, fmt.Errorf("bad %s usage: %w", f.label, err)
		}
		*f.dst = v
	}

	if up := values["Uptime"]; up != "" {
		v, err := strconv.ParseInt(up, 10, 64)
		if err != nil {
			return NodeDetails{}, fmt.Errorf("bad uptime %q: %w", up, err)
		}
		nd.Uptime = v
	}
	return nd, nil
}

// parsePercent parses "12.5%", "12.5 %" or "12.5", empty string is 0
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse percent %q: %w", s, err)
	}
	return v, nil
}
