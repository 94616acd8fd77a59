package model

// MockTodos is the fixed demo set served by the home module and used to
// seed an empty development server.
func MockTodos() []TodoItem {
	return []TodoItem{
		{ID: 1, Title: "delectus aut autem"},
		{ID: 2, Title: "quis ut nam facilis et officia qui"},
		{ID: 3, Title: "fugiat veniam minus"},
		{ID: 4, Title: "et porro tempora", Completed: true},
		{ID: 5, Title: "laboriosam mollitia et enim quasi adipisci quia provident illum"},
		{ID: 6, Title: "qui ullam ratione quibusdam voluptatem quia omnis"},
		{ID: 7, Title: "illo expedita consequatur quia in"},
		{ID: 8, Title: "quo adipisci enim quam ut ab", Completed: true},
		{ID: 9, Title: "molestiae perspiciatis ipsa"},
		{ID: 10, Title: "illo est ratione doloremque quia maiores aut", Completed: true},
	}
}
