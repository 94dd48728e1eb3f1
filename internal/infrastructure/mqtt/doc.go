// Package mqtt provides the Totem daemon's MQTT publishing client.
//
// The daemon is a publisher only. It announces its presence on
// totem/system/status (retained, with a Last Will for crash detection)
// and fans out hardware events to totem/event/{module}/{type} so
// external automations can react to touches, expression changes and
// other hardware activity without polling the unix socket.
//
// Connection management uses paho's auto-reconnect with exponential
// backoff; a reconnect republishes the retained online status.
//
// The MQTT sink is optional. When the mqtt section of totem.yaml is
// disabled the daemon serves the socket protocol only.
package mqtt
