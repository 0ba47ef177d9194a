package gridproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TwinNodes(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/nodes", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("twin_id"))
		assert.Equal(t, "2", r.URL.Query().Get("size"))
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case 1:
			_, _ = fmt.Fprint(w, `[{"nodeId":1,"twinId":7,"farmId":3},{"nodeId":2,"twinId":7,"farmId":3}]`)
		case 2:
			_, _ = fmt.Fprint(w, `[{"nodeId":5,"twinId":7,"farmId":4,"publicConfig":{"ipv4":"1.2.3.4/24"}}]`)
		default:
			t.Errorf("unexpected page %d", page)
		}
	}))
	defer ts.Close()

	c := New(Params{URL: ts.URL, PageSize: 2})
	nodes, err := c.TwinNodes(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{nodes[0].NodeID, nodes[1].NodeID, nodes[2].NodeID})
	assert.Equal(t, "1.2.3.4/24", nodes[2].PublicConfig.IPv4)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_NodeIPv4(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nodes/11":
			_, _ = fmt.Fprint(w, `{"nodeId":11,"publicConfig":{"ipv4":"125.25.25.25/25","gw4":"125.25.25.24"}}`)
		case "/nodes/12":
			_, _ = fmt.Fprint(w, `{"nodeId":12,"publicConfig":{"ipv4":""}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"error":"node not found"}`)
		}
	}))
	defer ts.Close()

	c := New(Params{URL: ts.URL})
	ip, err := c.NodeIPv4(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "125.25.25.25/25", ip)

	ip, err = c.NodeIPv4(context.Background(), 12)
	require.NoError(t, err)
	assert.Empty(t, ip)

	_, err = c.NodeIPv4(context.Background(), 13)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "node not found")
}

func TestClient_Twin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/twins", r.URL.Path)
		if r.URL.Query().Get("account_id") == "5Abc" || r.URL.Query().Get("twin_id") == "42" {
			_ = json.NewEncoder(w).Encode([]Twin{{TwinID: 42, AccountID: "5Abc", Relay: "relay.dev.grid.tf"}})
			return
		}
		_, _ = fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	c := New(Params{URL: ts.URL})
	twin, err := c.Twin(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "5Abc", twin.AccountID)

	twin, err = c.TwinByAccount(context.Background(), "5Abc")
	require.NoError(t, err)
	assert.Equal(t, 42, twin.TwinID)

	_, err = c.Twin(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_TwinFarms(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farms", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("twin_id"))
		_, _ = fmt.Fprint(w, `[{"farmId":3,"name":"farm-a","twinId":42,"publicIps":[{"ip":"185.1.1.1/24","gateway":"185.1.1.254"}]}]`)
	}))
	defer ts.Close()

	farms, err := New(Params{URL: ts.URL}).TwinFarms(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, farms, 1)
	assert.Equal(t, "farm-a", farms[0].Name)
	assert.Equal(t, "185.1.1.254", farms[0].PublicIPs[0].Gateway)
}

func TestClient_Ping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprint(w, `{"ping":"pong"}`)
	}))
	defer ts.Close()
	require.NoError(t, New(Params{URL: ts.URL}).Ping(context.Background()))

	ts.Close()
	require.Error(t, New(Params{URL: ts.URL, Timeout: time.Second}).Ping(context.Background()))
}

func TestClient_WaitNodeIPv4(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ip := ""
		if atomic.AddInt32(&calls, 1) >= 3 {
			ip = "125.25.25.25/25"
		}
		_ = json.NewEncoder(w).Encode(Node{NodeID: 11, PublicConfig: PublicConfig{IPv4: ip}})
	}))
	defer ts.Close()
	c := New(Params{URL: ts.URL})

	t.Run("converged", func(t *testing.T) {
		err := c.WaitNodeIPv4(context.Background(), 11, "125.25.25.25/25", Poll{Attempts: 5, Delay: 10 * time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("not converged", func(t *testing.T) {
		err := c.WaitNodeIPv4(context.Background(), 11, "", Poll{Attempts: 3, Delay: 10 * time.Millisecond})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotConverged))
		assert.Contains(t, err.Error(), `"125.25.25.25/25"`)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := c.WaitNodeIPv4(ctx, 11, "10.0.0.1/24", Poll{Attempts: 100, Delay: 20 * time.Millisecond})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestNode_Usage(t *testing.T) {
	n := Node{
		TotalResources: Resources{CRU: 8, SRU: 1000, HRU: 0, MRU: 400},
		UsedResources:  Resources{CRU: 2, SRU: 250, HRU: 10, MRU: 100},
	}
	cru, sru, hru, mru := n.Usage()
	assert.InDelta(t, 25.0, cru, 0.001)
	assert.InDelta(t, 25.0, sru, 0.001)
	assert.InDelta(t, 0.0, hru, 0.001)
	assert.InDelta(t, 25.0, mru, 0.001)
}
