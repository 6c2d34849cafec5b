// Package rtc hands clients the ICE configuration they need to negotiate a
// peer connection. The server itself never terminates media or inspects the
// negotiation payloads it relays.
package rtc

import "github.com/pion/webrtc/v4"

const defaultSTUNURL = "stun:stun.l.google.com:19302"

// ICEServers builds the ICE server set from configured STUN urls, falling
// back to a public STUN server when none are configured.
func ICEServers(stunURLs []string) []webrtc.ICEServer {
	if len(stunURLs) == 0 {
		stunURLs = []string{defaultSTUNURL}
	}
	return []webrtc.ICEServer{
		{URLs: stunURLs},
	}
}

// ClientConfig is the webrtc.Configuration a browser peer should start from.
func ClientConfig(stunURLs []string) webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: ICEServers(stunURLs),
	}
}
