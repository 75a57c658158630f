package soap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEnvelope(t *testing.T) {
	body := string(buildEnvelope(
		"urn:schemas-upnp-org:service:AVTransport:1",
		"Play",
		map[string]string{"InstanceID": "0"},
	))

	require.Contains(t, body, `<u:Play xmlns:u="urn:schemas-upnp-org:service:AVTransport:1">`)
	require.Contains(t, body, "<InstanceID>0</InstanceID>")
	require.Contains(t, body, "</u:Play>")
	require.Contains(t, body, "<s:Envelope")
}

func TestBuildEnvelopeEscapesArguments(t *testing.T) {
	body := string(buildEnvelope(
		"urn:schemas-upnp-org:service:AVTransport:1",
		"SetAVTransportURI",
		map[string]string{"CurrentURIMetaData": `<DIDL-Lite>&"meta"</DIDL-Lite>`},
	))

	require.Contains(t, body, "&lt;DIDL-Lite&gt;&amp;")
	require.NotContains(t, body, "<DIDL-Lite>&")
}

func TestDoRejectsUnknownService(t *testing.T) {
	client := NewClient(0)
	_, err := client.Do(context.Background(), "192.0.2.1", Service("nope"), "Play", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown service")
}

func TestErrorMessages(t *testing.T) {
	fault := &FaultError{Action: "Play", Code: "701", Description: "Transition not available"}
	require.Contains(t, fault.Error(), "Play")
	require.Contains(t, fault.Error(), "701")

	timeout := &TimeoutError{Action: "Play"}
	require.Contains(t, timeout.Error(), "Play")
}
