package domain

type TransportStatus string

const (
	NotReceived    TransportStatus = "NOT_RECEIVED"
	InPort         TransportStatus = "IN_PORT"
	OnboardCarrier TransportStatus = "ONBOARD_CARRIER"
	Claimed        TransportStatus = "CLAIMED"
	UnknownStatus  TransportStatus = "UNKNOWN"
)

func ParseTransportStatus(s string) (TransportStatus, error) {
	switch t := TransportStatus(s); t {
	case NotReceived, InPort, OnboardCarrier, Claimed, UnknownStatus:
		return t, nil
	}
	return "", invalidArgument("unknown transport status %q", s)
}

type RoutingStatus string

const (
	NotRouted RoutingStatus = "NOT_ROUTED"
	Routed    RoutingStatus = "ROUTED"
	Misrouted RoutingStatus = "MISROUTED"
)

func ParseRoutingStatus(s string) (RoutingStatus, error) {
	switch r := RoutingStatus(s); r {
	case NotRouted, Routed, Misrouted:
		return r, nil
	}
	return "", invalidArgument("unknown routing status %q", s)
}
