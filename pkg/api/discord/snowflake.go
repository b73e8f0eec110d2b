package discord

import (
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Epoch is the first second of 2015 in milliseconds, the start of Discord
// snowflake timestamps.
const Epoch int64 = 1420070400000

const timestampShift = 22

// SnowflakeTime returns the creation time encoded in a Discord snowflake.
func SnowflakeTime(id string) (time.Time, error) {
	sf, err := snowflake.ParseString(id)
	if err != nil {
		return time.Time{}, err
	}

	if sf.Int64() <= 0 {
		return time.Time{}, errors.New("invalid snowflake")
	}

	return time.UnixMilli((sf.Int64() >> timestampShift) + Epoch), nil
}

// SnowflakeAt returns the smallest snowflake created at t.
func SnowflakeAt(t time.Time) string {
	return strconv.FormatInt((t.UnixMilli()-Epoch)<<timestampShift, 10)
}
