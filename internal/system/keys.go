package system

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyA     uint16 = 30
	KeyN     uint16 = 49
	KeySpace uint16 = 57
	KeyF4    uint16 = 62
)
