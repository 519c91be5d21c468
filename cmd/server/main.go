// Command server runs the leavedesk HTTP service.
//
// Usage:
//
//	server             # same as "server serve"
//	server serve --addr :9090
//	server status      # seed the demo data and print a status report
//	server version
package main

func main() {
	Execute()
}
