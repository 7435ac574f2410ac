package queries

const (
	QueryCreateRoom = `
		INSERT INTO chat_rooms (name)
		VALUES ($1)
		RETURNING id, name, created_at;
	`
	QueryGetRoom = `
		SELECT id, name, created_at
		FROM chat_rooms
		WHERE id = $1;
	`
	QueryGetRoomForShare = `
		SELECT id, name, created_at
		FROM chat_rooms
		WHERE id = $1
		FOR SHARE;
	`
	QueryGetRoomForUpdate = `
		SELECT id, name, created_at
		FROM chat_rooms
		WHERE id = $1
		FOR UPDATE;
	`
	QueryListRoomsByMember = `
		SELECT r.id, r.name, r.created_at
		FROM chat_rooms AS r
		JOIN room_members AS m ON m.room_id = r.id
		WHERE m.user_id = $1
		ORDER BY r.id ASC;
	`
	QueryRenameRoom = `
		UPDATE chat_rooms
		SET name = $2
		WHERE id = $1
		RETURNING id, name, created_at;
	`
	QueryDeleteRoom         = `DELETE FROM chat_rooms WHERE id = $1;`
	QueryDeleteOrphanedRoom = `
		DELETE FROM chat_rooms AS r
		WHERE NOT EXISTS (SELECT 1 FROM room_members AS m WHERE m.room_id = r.id);
	`
)
