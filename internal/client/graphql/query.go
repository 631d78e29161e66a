package graphql

// OperationName is sent as "operationName" alongside MyDataQuery.
const OperationName = "MyData"

// MyDataQuery selects the authenticated user's books, reads, reviews
// and lists.
const MyDataQuery = `query MyData {
  me {
    user_books {
      id
      book {
        ...booksFragment
      }
      user_book_reads {
        id
        started_at
        paused_at
        finished_at
        edition {
          ...editionsFragment
        }
      }
      rating
      reviewed_at
      review_raw
      review_has_spoilers
      private_notes
    }
    lists {
      id
      name
      list_books {
        id
        book {
          ...booksFragment
        }
      }
    }
  }
}

fragment booksFragment on books {
  id
  title
  default_edition {
    ...editionsFragment
  }
}

fragment editionsFragment on editions {
  id
  isbn_13
  isbn_10
}
`
