package bench

// SampleProject returns a fixed nine-file project shaped like a
// typical generated Next.js app. A fresh map is returned on every
// call so runs cannot contaminate each other.
func SampleProject() map[string]string {
	return map[string]string{
		"components/Header.tsx": `"use client";
import Link from "next/link";
import { Button } from "@/components/ui/button";

export function Header() {
    return (
        <header className="bg-slate-900 text-white p-4">
            <nav aria-label="Main navigation" className="container mx-auto flex justify-between items-center">
                <Link href="/" className="text-xl font-bold">MyApp</Link>
                <div className="flex gap-4">
                    <Link href="/about">About</Link>
                    <Link href="/contact">Contact</Link>
                    <Button variant="outline">Sign In</Button>
                </div>
            </nav>
        </header>
    );
}
`,
		"components/Footer.tsx": `import Link from "next/link";

export function Footer() {
    return (
        <footer className="bg-slate-800 text-slate-300 p-8 mt-auto">
            <div className="container mx-auto">
                <div className="grid grid-cols-3 gap-8">
                    <div>
                        <h3 className="font-bold mb-2">Company</h3>
                        <Link href="/about" className="block hover:text-white">About Us</Link>
                        <Link href="/careers" className="block hover:text-white">Careers</Link>
                    </div>
                    <div>
                        <h3 className="font-bold mb-2">Support</h3>
                        <Link href="/help" className="block hover:text-white">Help Center</Link>
                        <Link href="/contact" className="block hover:text-white">Contact</Link>
                    </div>
                </div>
                <p className="mt-8 text-center">&copy; 2025 MyApp. All rights reserved.</p>
            </div>
        </footer>
    );
}
`,
		"components/Sidebar.tsx": `"use client";
import Link from "next/link";
import { useState } from "react";

export function Sidebar() {
    const [isOpen, setIsOpen] = useState(false);

    return (
        <aside className={isOpen ? "bg-slate-100 p-4 w-64" : "bg-slate-100 p-4 w-16"}>
            <button onClick={() => setIsOpen(!isOpen)}>Toggle</button>
            {isOpen && (
                <nav className="mt-4">
                    <Link href="/dashboard" className="block py-2">Dashboard</Link>
                    <Link href="/settings" className="block py-2">Settings</Link>
                    <Link href="/profile" className="block py-2">Profile</Link>
                </nav>
            )}
        </aside>
    );
}
`,
		"app/page.tsx": `import { Header } from "@/components/Header";
import { Footer } from "@/components/Footer";
import { Button } from "@/components/ui/button";

export default function Home() {
    return (
        <div className="min-h-screen flex flex-col">
            <Header />
            <main className="flex-1 container mx-auto py-8">
                <h1 className="text-4xl font-bold mb-4">Welcome to MyApp</h1>
                <p className="text-lg text-slate-600 mb-8">
                    Build amazing things with our platform.
                </p>
                <Button size="lg">Get Started</Button>
            </main>
            <Footer />
        </div>
    );
}
`,
		"app/about/page.tsx": `import { Header } from "@/components/Header";
import { Footer } from "@/components/Footer";

export default function About() {
    return (
        <div className="min-h-screen flex flex-col">
            <Header />
            <main className="flex-1 container mx-auto py-8">
                <h1 className="text-4xl font-bold mb-4">About Us</h1>
                <p className="text-lg text-slate-600">
                    We are a team dedicated to building great software.
                </p>
            </main>
            <Footer />
        </div>
    );
}
`,
		"lib/utils.ts": `import { clsx, type ClassValue } from "clsx";
import { twMerge } from "tailwind-merge";

export function cn(...inputs: ClassValue[]) {
    return twMerge(clsx(inputs));
}

export function formatDate(date: Date): string {
    return date.toLocaleDateString("en-US", {
        year: "numeric",
        month: "long",
        day: "numeric",
    });
}
`,
		"hooks/useAuth.ts": `"use client";
import { useState, useEffect } from "react";

interface User {
    id: string;
    name: string;
    email: string;
}

export function useAuth() {
    const [user, setUser] = useState<User | null>(null);
    const [isLoading, setIsLoading] = useState(true);

    useEffect(() => {
        setIsLoading(false);
    }, []);

    return { user, isLoading, setUser };
}
`,
		"styles/globals.css": `@tailwind base;
@tailwind components;
@tailwind utilities;

:root {
    --background: 0 0% 100%;
    --foreground: 222.2 84% 4.9%;
}

body {
    font-family: system-ui, sans-serif;
}

.container {
    max-width: 1200px;
    margin: 0 auto;
    padding: 0 1rem;
}
`,
		"types/index.ts": `export interface User {
    id: string;
    name: string;
    email: string;
    avatar?: string;
}

export interface Post {
    id: string;
    title: string;
    content: string;
    author: User;
    createdAt: Date;
}
`,
	}
}

// Queries returns the five benchmark cases. BaselineCalls counts the
// tool round-trips an agent without pre-loaded context spends on the
// same request (list, grep, read, then the edit).
func Queries() []Query {
	return []Query{
		{
			Text:          "make the header background blue",
			Description:   "simple styling change",
			ExpectedFile:  "Header.tsx",
			BaselineCalls: 4,
		},
		{
			Text:          "change the homepage title to Welcome",
			Description:   "content change",
			ExpectedFile:  "page.tsx",
			BaselineCalls: 4,
		},
		{
			Text:          "add a loading spinner to the button",
			Description:   "small feature",
			ExpectedFile:  "page.tsx",
			BaselineCalls: 5,
		},
		{
			Text:          "fix the broken link in footer",
			Description:   "bug fix",
			ExpectedFile:  "Footer.tsx",
			BaselineCalls: 4,
		},
		{
			Text:          "update the navigation menu items",
			Description:   "multi-file potential",
			ExpectedFile:  "Header.tsx",
			BaselineCalls: 5,
		},
	}
}
