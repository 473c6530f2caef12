// Fixed schema and seed rows for the e-commerce store.
// Immutable configuration data; every order references existing customer
// and product rows.

package database

const schemaSQL = `
CREATE TABLE customers (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    country TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE products (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    price REAL NOT NULL,
    stock INTEGER NOT NULL
);

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    quantity INTEGER NOT NULL,
    total REAL NOT NULL,
    status TEXT NOT NULL,
    order_date TEXT NOT NULL
);
`

const seedSQL = `
INSERT INTO customers (id, name, email, country, created_at) VALUES
    (1, 'Alice Johnson', 'alice@example.com', 'United States', '2024-01-15'),
    (2, 'Bob Smith', 'bob@example.com', 'United Kingdom', '2024-02-20'),
    (3, 'Carlos Garcia', 'carlos@example.com', 'Spain', '2024-03-10'),
    (4, 'Diana Chen', 'diana@example.com', 'China', '2024-04-05'),
    (5, 'Eva Mueller', 'eva@example.com', 'Germany', '2024-05-12'),
    (6, 'Frank Wilson', 'frank@example.com', 'United States', '2024-06-18'),
    (7, 'Grace Kim', 'grace@example.com', 'South Korea', '2024-07-22'),
    (8, 'Hassan Ali', 'hassan@example.com', 'United States', '2024-08-30');

INSERT INTO products (id, name, category, price, stock) VALUES
    (1, 'Laptop Pro', 'Electronics', 1299.99, 50),
    (2, 'Wireless Mouse', 'Electronics', 29.99, 200),
    (3, 'Running Shoes', 'Sports', 89.99, 100),
    (4, 'Python Cookbook', 'Books', 49.99, 75),
    (5, 'Coffee Maker', 'Home', 159.99, 30),
    (6, 'Yoga Mat', 'Sports', 24.99, 150);

INSERT INTO orders (id, customer_id, product_id, quantity, total, status, order_date) VALUES
    (1, 1, 1, 1, 1299.99, 'completed', '2025-01-05'),
    (2, 1, 2, 2, 59.98, 'completed', '2025-01-10'),
    (3, 2, 3, 1, 89.99, 'completed', '2025-01-15'),
    (4, 3, 4, 3, 149.97, 'pending', '2025-01-20'),
    (5, 4, 1, 1, 1299.99, 'completed', '2025-01-25'),
    (6, 5, 5, 2, 319.98, 'shipped', '2025-02-01'),
    (7, 6, 6, 1, 24.99, 'completed', '2025-02-05'),
    (8, 2, 2, 5, 149.95, 'pending', '2025-02-10'),
    (9, 7, 3, 2, 179.98, 'completed', '2025-02-15'),
    (10, 8, 4, 1, 49.99, 'shipped', '2025-02-20'),
    (11, 1, 5, 1, 159.99, 'pending', '2025-03-01'),
    (12, 4, 6, 3, 74.97, 'completed', '2025-03-05');
`
