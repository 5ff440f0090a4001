// Package mqtt provides MQTT client connectivity for Flotilla.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the transport between Flotilla and the fleet supervisor that
// owns device configurations and performs network discovery. The broker
// decouples the dashboard from the supervisor's lifecycle:
//
//	Flotilla ↔ MQTT Broker ↔ Fleet Supervisor
//
// The supervisor publishes retained device snapshots and online-state
// maps; Flotilla subscribes to those and publishes refresh and metadata
// requests. See topics.go for the full topic contract.
//
// # Security Considerations
//
//   - TLS is recommended for anything beyond a trusted LAN (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.DeviceSnapshot(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("snapshot: %s", payload)
//	        return nil
//	    })
package mqtt
