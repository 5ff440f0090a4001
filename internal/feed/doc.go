// Package feed delivers device data from the MQTT broker to the
// dashboard controller.
//
// Two feeds exist. The device feed carries full snapshots of the
// configured and importable device collections, published retained by
// the fleet supervisor so a fresh subscriber receives the current state
// immediately. The online feed carries a mapping from configuration
// identifier to online state, also retained.
//
// Subscribing returns a Subscription handle. Refresh asks the
// supervisor to re-emit the current snapshot; Unsubscribe releases the
// topic and is safe to call more than once, only the first call takes
// effect.
package feed
