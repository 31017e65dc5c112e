package websocket

import "github.com/gofiber/websocket/v2"

// ServeWs registers the connection and pumps events until it closes. It
// blocks for the lifetime of the connection.
func ServeWs(hub *Hub, conn *websocket.Conn, userId string) {
	client := NewClient(hub, conn, userId)
	if !hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
