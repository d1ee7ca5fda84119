package writeback

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/room"
)

// ReadRooms loads a snapshot of every room through the accessor. It fails
// with ErrNoRooms on an empty store and with ErrMissingSchema when a
// required attribute is not part of the room schema.
func (d *Driver) ReadRooms(ctx context.Context) ([]room.Room, error) {
	recs, err := d.acc.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNoRooms
	}
	if err := d.checkSchema(ctx); err != nil {
		return nil, err
	}

	rooms := make([]room.Room, 0, len(recs))
	for _, rec := range recs {
		r, err := d.readRoom(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("reading room %s: %w", rec.RecordID(), err)
		}
		rooms = append(rooms, r)
	}
	d.logger.Debug("rooms read", zap.Int("rooms", len(rooms)))
	return rooms, nil
}

func (d *Driver) checkSchema(ctx context.Context) error {
	required := append([]string{
		d.attrs.UnitNumber,
		d.attrs.RoomType,
		d.attrs.Area,
		d.attrs.Level,
	}, d.attrs.Written()...)

	var missing []string
	for _, name := range required {
		ok, err := d.acc.HasAttribute(ctx, name)
		if err != nil {
			return fmt.Errorf("checking attribute %q: %w", name, err)
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSchema, strings.Join(missing, ", "))
	}
	return nil
}

func (d *Driver) readRoom(ctx context.Context, rec room.Record) (room.Room, error) {
	r := room.Room{Record: rec}

	v, ok, err := d.acc.GetTag(ctx, rec, d.attrs.UnitNumber)
	if err != nil {
		return r, err
	}
	if ok {
		r.UnitNumber = toString(v)
	}

	// An unset type is read as 0 and ends up Unknown.
	v, ok, err = d.acc.GetTag(ctx, rec, d.attrs.RoomType)
	if err != nil {
		return r, err
	}
	if ok {
		t, whole := toRoomType(v)
		if !whole {
			d.logger.Warn("room type is not a whole number; reading as unknown",
				zap.String("room", rec.RecordID()),
				zap.Any("value", v))
		}
		r.Type = t
	}

	v, ok, err = d.acc.GetTag(ctx, rec, d.attrs.Area)
	if err != nil {
		return r, err
	}
	if ok {
		f, err := toFloat(v)
		if err != nil {
			return r, fmt.Errorf("%s: %w", d.attrs.Area, err)
		}
		r.RawArea = f
	}

	v, ok, err = d.acc.GetTag(ctx, rec, d.attrs.Level)
	if err != nil {
		return r, err
	}
	if ok {
		r.Level = toString(v)
	}
	return r, nil
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// toRoomType converts a stored room type. Blank values are Unknown. Any
// value that is not a whole number is also Unknown and whole is false.
func toRoomType(v any) (t room.Type, whole bool) {
	switch n := v.(type) {
	case nil:
		return room.Unknown, true
	case int:
		return room.Type(n), true
	case int32:
		return room.Type(n), true
	case int64:
		return room.Type(n), true
	case float64:
		if n != math.Trunc(n) {
			return room.Unknown, false
		}
		return room.Type(int(n)), true
	case []byte:
		return toRoomType(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return room.Unknown, true
		}
		if i, err := strconv.Atoi(s); err == nil {
			return room.Type(i), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return room.Unknown, false
		}
		return toRoomType(f)
	default:
		return room.Unknown, false
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case []byte:
		return toFloat(string(t))
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric value %T", v)
	}
}
