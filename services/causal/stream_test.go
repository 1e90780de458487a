// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package causal

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialStream connects a websocket client to the sample stream endpoint.
func dialStream(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestHandleSampleStream(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	server := httptest.NewServer(router)
	defer server.Close()

	ws := dialStream(t, server,
		"/v1/causal/models/"+id+"/sample/stream?rows=10&seed=3&batch=4")

	// First frame announces the columns.
	var header StreamMessage
	require.NoError(t, ws.ReadJSON(&header))
	assert.Equal(t, []string{"a", "b", "c"}, header.Columns)
	assert.Empty(t, header.Rows)

	total := 0
	for {
		var msg StreamMessage
		require.NoError(t, ws.ReadJSON(&msg))
		require.Empty(t, msg.Error)
		if msg.Done {
			break
		}
		assert.Equal(t, total, msg.Offset)
		for _, row := range msg.Rows {
			assert.Equal(t, []float64{1, 3, 6}, row)
		}
		total += len(msg.Rows)
	}
	assert.Equal(t, 10, total)
}

func TestHandleSampleStream_GraphOnly(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, confoundedYAML)

	server := httptest.NewServer(router)
	defer server.Close()

	// Mechanisms are required, so the request fails before the upgrade.
	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/v1/causal/models/" + id + "/sample/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}
