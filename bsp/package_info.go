// Package bsp contains the Build Server Protocol value types that the test harness sends to and
// receives from a candidate build server.
//
// These are passive records. Field names and JSON property names follow the BSP 2.x wire format.
// Properties whose content is defined by a "dataKind" discriminator are represented as opaque
// ldvalue.Value instances, since the harness never interprets them beyond comparing them.
package bsp
