// Package discovery finds personal weather stations on the local network
// via mDNS. Stations advertise a _wxstation._tcp service with a hostname of
// the form wxs<id>.local; anything else on the network is ignored.
package discovery
