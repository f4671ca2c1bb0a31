package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("Room does not exist")
	ErrRoomExists       = errors.New("Room already exists")
	ErrNoEligibleDrawer = errors.New("No available drawer")
)
