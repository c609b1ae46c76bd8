// Command chatd is the SecureChat server daemon.
//
// It hosts the shared key directory, stores and pushes message envelopes,
// and keeps the websocket connection registry that decides who is
// currently reachable for push delivery.
package main
