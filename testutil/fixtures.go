package testutil

// SampleStateJSON is a well-formed persisted store blob with two sessions
const SampleStateJSON = `{
  "map": {
    "session-1": {
      "id": "session-1",
      "name": "First",
      "createdAt": "2025-01-02T10:00:00Z",
      "updatedAt": "2025-01-02T10:05:00Z",
      "messages": [
        {"id": "m1", "role": "user", "content": "Hello", "timestamp": "2025-01-02T10:00:01Z"},
        {"id": "m2", "role": "assistant", "content": "Hi there", "timestamp": "2025-01-02T10:00:02Z"}
      ],
      "tools": [
        {"id": "t1", "tool": "search", "success": true, "input": {"q": "hello"}, "output": ["x"], "timestamp": "2025-01-02T10:00:02Z"}
      ],
      "logs": [
        {"id": "l1", "message": "resolved provider", "timestamp": "2025-01-02T10:00:02Z"}
      ]
    },
    "session-2": {
      "id": "session-2",
      "name": "Second",
      "createdAt": "2025-01-03T09:00:00Z",
      "updatedAt": "2025-01-03T09:00:00Z",
      "messages": [],
      "tools": [],
      "logs": []
    }
  },
  "order": ["session-1", "session-2"],
  "currentId": "session-1"
}`

// MalformedSessionJSON has wrong-shaped list fields that must normalize to
// empty sequences on load
const MalformedSessionJSON = `{
  "map": {
    "session-bad": {
      "id": "session-bad",
      "name": "Broken",
      "createdAt": "2025-01-02T10:00:00Z",
      "updatedAt": "2025-01-02T10:00:00Z",
      "messages": "not-a-list",
      "tools": {"oops": true},
      "logs": 42
    }
  },
  "order": ["session-bad"],
  "currentId": "session-bad"
}`
