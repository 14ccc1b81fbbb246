// Package client connects the test harness to a build server under test.
//
// It is responsible for finding out how to start the server (from explicit arguments or from a
// BSP connection file in the workspace's .bsp directory), starting it or dialing it, and wrapping
// the resulting JSON-RPC connection in a Session. Requests are issued asynchronously: every typed
// method on Server returns a Future, which the test logic awaits under a timeout.
//
// Nothing in this package makes assertions about the server's behavior; that is the job of the
// bsptests package.
package client
