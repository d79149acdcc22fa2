// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/MKhiriev/go-mind-keeper/models"
)

const heartbeatInterval = 30 * time.Second

// realtimeMessage is the phx-style envelope the realtime endpoint speaks.
type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the payload of a postgres_changes event.
type changePayload struct {
	Data struct {
		Type   models.EventType `json:"type"`
		Table  string           `json:"table"`
		Record json.RawMessage  `json:"record"`
		Old    json.RawMessage  `json:"old_record"`
	} `json:"data"`
}

// Subscribe implements [RemoteStore]. It dials the realtime websocket, joins
// the items and spaces topics filtered by userID, and spawns a single reader
// goroutine that forwards change events to the returned channel in arrival
// order. A heartbeat goroutine keeps the connection alive.
//
// The channel closes when ctx is cancelled or the connection drops; the
// caller is expected to resubscribe (with a fresh Refresh) on close.
func (r *restRemoteStore) Subscribe(ctx context.Context, userID string) (<-chan models.ChangeEvent, error) {
	wsURL := strings.Replace(r.baseURL, "http", "ws", 1) +
		"/realtime/v1/websocket?apikey=" + r.anonKey + "&vsn=1.0.0"

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime websocket: %w", err)
	}

	for _, table := range []string{models.TableItems, models.TableSpaces} {
		if err = r.joinTopic(ctx, conn, table, userID); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return nil, fmt.Errorf("join topic %s: %w", table, err)
		}
	}

	events := make(chan models.ChangeEvent)

	go r.heartbeatLoop(ctx, conn)
	go r.readLoop(ctx, conn, events)

	return events, nil
}

func (r *restRemoteStore) joinTopic(ctx context.Context, conn *websocket.Conn, table, userID string) error {
	join := map[string]any{
		"topic": "realtime:public:" + table,
		"event": "phx_join",
		"payload": map[string]any{
			"config": map[string]any{
				"postgres_changes": []map[string]string{{
					"event":  "*",
					"schema": "public",
					"table":  table,
					"filter": "user_id=eq." + userID,
				}},
			},
		},
		"ref": table,
	}

	data, err := json.Marshal(join)
	if err != nil {
		return fmt.Errorf("encode join message: %w", err)
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func (r *restRemoteStore) heartbeatLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(heartbeatInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			hb := map[string]any{"topic": "phoenix", "event": "heartbeat", "payload": map[string]any{}, "ref": "hb"}
			data, _ := json.Marshal(hb)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

// readLoop is the single reader: event order on the channel equals arrival
// order on the wire, which the sync engine's merge relies on.
func (r *restRemoteStore) readLoop(ctx context.Context, conn *websocket.Conn, events chan<- models.ChangeEvent) {
	defer close(events)
	defer conn.Close(websocket.StatusNormalClosure, "")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg realtimeMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			continue // malformed frame, skip
		}
		if msg.Event != "postgres_changes" {
			continue // join replies, heartbeat acks
		}

		var payload changePayload
		if err = json.Unmarshal(msg.Payload, &payload); err != nil {
			continue
		}

		ev := models.ChangeEvent{
			Table:     payload.Data.Table,
			EventType: payload.Data.Type,
			New:       payload.Data.Record,
			Old:       payload.Data.Old,
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
