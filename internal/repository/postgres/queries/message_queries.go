package queries

const messageColumns = `m.id, m.content, m.sent_at, m.sender_id, m.room_id, COALESCE(u.username, '')`

const (
	QueryCreateMessage = `
		INSERT INTO messages (content, sent_at, sender_id, room_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	QueryGetMessage = `
		SELECT ` + messageColumns + `
		FROM messages AS m
		LEFT JOIN users AS u ON u.id = m.sender_id
		WHERE m.id = $1;
	`
	QueryGetMessageForUpdate = `
		SELECT ` + messageColumns + `
		FROM messages AS m
		LEFT JOIN users AS u ON u.id = m.sender_id
		WHERE m.id = $1
		FOR UPDATE OF m;
	`
	QueryListMessagesByRoom = `
		SELECT ` + messageColumns + `
		FROM messages AS m
		LEFT JOIN users AS u ON u.id = m.sender_id
		WHERE m.room_id = $1
		ORDER BY m.sent_at ASC, m.id ASC;
	`
	QueryListMessagesBySender = `
		SELECT ` + messageColumns + `
		FROM messages AS m
		LEFT JOIN users AS u ON u.id = m.sender_id
		WHERE m.sender_id = $1
		ORDER BY m.sent_at DESC, m.id DESC;
	`
	QueryUpdateMessageContent = `UPDATE messages SET content = $2 WHERE id = $1;`
	QueryDeleteMessage        = `DELETE FROM messages WHERE id = $1;`
)
