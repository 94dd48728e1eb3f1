package mqtt

import "fmt"

// TopicPrefix is the base for all totem topics.
//
// Scheme:
//
//	totem/system/status              daemon online/offline (retained, LWT)
//	totem/event/{module}/{type}      hardware events, e.g. totem/event/touch/touched
//	totem/module/{module}/state      retained module state snapshots
const TopicPrefix = "totem"

// Topics provides builders for totem MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// SystemStatus returns the daemon status topic.
//
// Example: totem/system/status
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// Event returns the topic for a hardware event.
//
// Example: totem/event/touch/touched
func (Topics) Event(module, eventType string) string {
	return fmt.Sprintf("%s/event/%s/%s", TopicPrefix, module, eventType)
}

// ModuleState returns the retained state topic for a module.
//
// Example: totem/module/face/state
func (Topics) ModuleState(module string) string {
	return fmt.Sprintf("%s/module/%s/state", TopicPrefix, module)
}
