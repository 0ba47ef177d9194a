package pages

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeIDs(t *testing.T) {
	html, err := os.ReadFile("testdata/nodes.html")
	require.NoError(t, err)

	ids, err := ParseNodeIDs(string(html))
	require.NoError(t, err)
	assert.Equal(t, []int{17, 21}, ids)

	ids, err = ParseNodeIDs("<table><tbody><tr><td>No data available</td></tr></tbody></table>")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParseNodeTable(t *testing.T) {
	html, err := os.ReadFile("testdata/nodes.html")
	require.NoError(t, err)

	res, err := ParseNodeTable(string(html))
	require.NoError(t, err)
	require.Len(t, res, 1)

	nd := res[0]
	assert.Equal(t, NodeDetails{
		IPv4:              "125.25.25.25/25",
		GW4:               "125.25.25.24",
		Domain:            "tf.grid",
		NodeID:            17,
		FarmID:            3,
		TwinID:            29,
		Country:           "Belgium",
		City:              "Ghent",
		Created:           "03-14-23, 09:05 AM",
		FarmingPolicyID:   1,
		UpdatedAt:         "10-01-24, 11:45 PM",
		CRU:               25,
		SRU:               12.5,
		HRU:               0,
		MRU:               33.33,
		Status:            "Up",
		CertificationType: "Diy",
		SerialNumber:      "SN-1",
		Uptime:            86400,
	}, nd)

	created, err := time.Parse(DateLayout, nd.Created)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 14, 9, 5, 0, 0, time.UTC), created)
}

func TestParseNodeTableBadValue(t *testing.T) {
	html := `<div class="node-details">
		<div class="v-list-item"><div class="v-list-item-title">Node ID</div><div class="v-list-item-subtitle">abc</div></div>
	</div>`
	_, err := ParseNodeTable(html)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad Node ID")
}

func TestParsePercent(t *testing.T) {
	tbl := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.5%", 12.5, false},
		{" 7 % ", 7, false},
		{"100", 100, false},
		{"", 0, false},
		{"n/a", 0, true},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			v, err := parsePercent(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 0.0001)
		})
	}
}
