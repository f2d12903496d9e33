// Package feedgate provides an embeddable client for gated content feeds.
//
// A Feedgate instance owns the whole session subsystem: the device
// identity, the access-code redemption flow, the background
// synchronization loop, and the multi-channel notification pipeline.
//
// Create a [Config], construct an instance with [New], then call
// [Feedgate.Start]:
//
//	cfg := feedgate.DefaultConfig()
//	cfg.BackendURL = "https://example.com/api"
//
//	client, err := feedgate.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Stop()
//
// Until a code is redeemed the loop idles; call [Feedgate.Redeem] to
// unlock it. Alert surfaces that require a capability (audio, OS
// notifications) stay silent until [Feedgate.HandleGesture] runs the
// one-time acquisition, typically on the first user interaction.
//
// To receive notifications about client activity, implement
// [EventHandler] and pass it via [WithEventHandler]. Additional behavior
// can be attached through [Plugin] implementations registered with
// [WithPlugin]; plugins are initialized in registration order and shut
// down in reverse order.
package feedgate
