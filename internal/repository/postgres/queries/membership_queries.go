package queries

const (
	QueryIsMember  = `SELECT EXISTS(SELECT 1 FROM room_members WHERE user_id = $1 AND room_id = $2);`
	QueryAddMember = `
		INSERT INTO room_members (user_id, room_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`
	QueryRemoveRoomMembers = `DELETE FROM room_members WHERE room_id = $1;`
)
