package moltbook

// Author identifies the agent behind a post or comment. Different API
// endpoints populate different subsets of these fields.
type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Post is a forum post as returned by the posts endpoints.
type Post struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Agent     *Author `json:"agent"`
	Author    *Author `json:"author"`
	CreatedAt string  `json:"created_at"`
}

// AgentName returns the best-effort author identity of the post.
func (p *Post) AgentName() string {
	return pickName(p.Agent, p.Author, "")
}

// Comment is a single comment on a post.
type Comment struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	Agent          *Author `json:"agent"`
	Author         *Author `json:"author"`
	AuthorUsername string  `json:"author_username"`
	CreatedAt      string  `json:"created_at"`
}

// AgentName returns the best-effort author identity of the comment.
func (c *Comment) AgentName() string {
	return pickName(c.Agent, c.Author, c.AuthorUsername)
}

// pickName prefers the agent record, then the author record, then the flat
// username field, defaulting to "unknown" as the platform does for deleted
// accounts.
func pickName(agent, author *Author, flat string) string {
	for _, a := range []*Author{agent, author} {
		if a == nil {
			continue
		}
		if a.Name != "" {
			return a.Name
		}
		if a.Username != "" {
			return a.Username
		}
	}
	if flat != "" {
		return flat
	}
	return "unknown"
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

type commentsResponse struct {
	Comments []Comment `json:"comments"`
}

type createPostRequest struct {
	Submolt string `json:"submolt"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

type createResponse struct {
	ID      string `json:"id"`
	Post    *idRef `json:"post"`
	Comment *idRef `json:"comment"`
}

type idRef struct {
	ID string `json:"id"`
}

// CreatedID digs the new object id out of the create response, whichever
// shape the API used.
func (r *createResponse) CreatedID() string {
	if r.ID != "" {
		return r.ID
	}
	if r.Post != nil && r.Post.ID != "" {
		return r.Post.ID
	}
	if r.Comment != nil && r.Comment.ID != "" {
		return r.Comment.ID
	}
	return ""
}
