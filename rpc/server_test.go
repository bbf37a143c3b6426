// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package rpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cielu/go-solnode/node"
)

func testServer(t *testing.T) (*Server, *node.Node) {
	t.Helper()
	cfg := node.DefaultConfig()
	cfg.TickInterval = node.Duration(time.Hour)
	cfg.HashesPerTick = 4
	cfg.GenesisAccounts = 2
	cfg.PohSeed = "rpc-test-seed"

	log := logrus.New()
	log.SetOutput(io.Discard)

	n, err := node.New(cfg, log)
	require.NoError(t, err)
	return NewServer(n, log), n
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTransferEndpoint(t *testing.T) {
	s, n := testServer(t)

	rec := postJSON(t, s.Router(), "/transfer", `{"from":1,"to":2,"lamports":1000000000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Ok      bool `json:"ok"`
		Receipt struct {
			EntryHash  string `json:"entryHash"`
			EntryIndex int    `json:"entryIndex"`
		} `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.NotEmpty(t, resp.Receipt.EntryHash)

	assert.Len(t, n.Entries(0), 1)
}

func TestTransferEmptyBody(t *testing.T) {
	s, n := testServer(t)

	rec := postJSON(t, s.Router(), "/transfer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Empty(t, n.Entries(0))
}

func TestTransferMissingFields(t *testing.T) {
	s, _ := testServer(t)
	rec := postJSON(t, s.Router(), "/transfer", `{"from":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferUnknownWallet(t *testing.T) {
	s, _ := testServer(t)
	rec := postJSON(t, s.Router(), "/transfer", `{"from":1,"to":99,"lamports":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransferOverdraft(t *testing.T) {
	s, _ := testServer(t)
	rec := postJSON(t, s.Router(), "/transfer", `{"from":1,"to":2,"lamports":999000000000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")
}

func TestAccountEndpoint(t *testing.T) {
	s, n := testServer(t)
	addr, ok := n.WalletAddress(1)
	require.True(t, ok)

	rec := getPath(t, s.Router(), "/accounts/"+addr.Base58())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Account struct {
			Lamports uint64 `json:"lamports"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(100_000_000_000), resp.Account.Lamports)
}

func TestAccountNotFound(t *testing.T) {
	s, _ := testServer(t)
	rec := getPath(t, s.Router(), "/accounts/1111111111111111111111111111112")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEntriesAndVerifyEndpoints(t *testing.T) {
	s, n := testServer(t)
	n.Tick()
	_, err := n.SubmitTransfer(1, 2, 1)
	require.NoError(t, err)

	rec := getPath(t, s.Router(), "/poh/entries?from=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var entriesResp struct {
		From    int               `json:"from"`
		Entries []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entriesResp))
	assert.Equal(t, 1, entriesResp.From)
	assert.Len(t, entriesResp.Entries, 1)

	rec = getPath(t, s.Router(), "/poh/verify")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}

func TestEntriesBadFrom(t *testing.T) {
	s, _ := testServer(t)
	rec := getPath(t, s.Router(), "/poh/entries?from=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := testServer(t)
	rec := getPath(t, s.Router(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestEntryFeedWebsocket(t *testing.T) {
	s, n := testServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/entries"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription registers after the handshake; keep ticking until
	// a frame arrives.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(20 * time.Millisecond):
				n.Tick()
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var entry struct {
		NumHashes uint64 `json:"numHashes"`
		Hash      string `json:"hash"`
	}
	require.NoError(t, conn.ReadJSON(&entry))
	assert.Equal(t, uint64(4), entry.NumHashes)
	assert.NotEmpty(t, entry.Hash)
}

func TestTransferContentTypes(t *testing.T) {
	s, _ := testServer(t)
	rec := postJSON(t, s.Router(), "/transfer", `{"from":1,"to":2,"lamports":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("{")))
}
